package mcp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwojciec/dtdocs"
	"github.com/fwojciec/dtdocs/mcp"
	"github.com/fwojciec/dtdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope decodes a server output line for assertions.
type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serveLines runs one session over the given input lines and returns the
// decoded output lines.
func serveLines(t *testing.T, search dtdocs.SearchService, lines ...string) []envelope {
	t.Helper()

	srv := mcp.NewServer(search, discardLogger())

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, srv.Serve(context.Background(), in, &out))

	var envelopes []envelope
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e envelope
		require.NoError(t, json.Unmarshal([]byte(line), &e), "output line should be valid JSON: %s", line)
		envelopes = append(envelopes, e)
	}
	return envelopes
}

const (
	initializeLine  = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"clientInfo":{"name":"test"}}}`
	initializedLine = `{"jsonrpc":"2.0","method":"notifications/initialized"}`
)

func TestServer_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests before initialization", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil, `{"jsonrpc":"2.0","id":7,"method":"tools/list"}`)

		require.Len(t, out, 1)
		require.NotNil(t, out[0].Error)
		assert.Equal(t, -32002, out[0].Error.Code)
		assert.Equal(t, "Server not initialized. Send initialize request first.", out[0].Error.Message)
		assert.Equal(t, "7", string(out[0].ID))
	})

	t.Run("answers initialize before readiness", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil, initializeLine)

		require.Len(t, out, 1)
		require.Nil(t, out[0].Error)
		assert.Contains(t, string(out[0].Result), `"protocolVersion"`)
		assert.Contains(t, string(out[0].Result), `"serverInfo"`)
		assert.Contains(t, string(out[0].Result), `"tools":{}`)
		assert.Contains(t, string(out[0].Result), `"resources":{}`)
		assert.Contains(t, string(out[0].Result), `"prompts":{}`)
	})

	t.Run("initialize is idempotent after readiness", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil, initializeLine, initializedLine, initializeLine)

		require.Len(t, out, 2)
		assert.Nil(t, out[0].Error)
		assert.Nil(t, out[1].Error)
	})

	t.Run("initialized notification is the only readiness trigger", func(t *testing.T) {
		t.Parallel()

		// Other notifications do not flip the state.
		out := serveLines(t, nil,
			`{"jsonrpc":"2.0","method":"notifications/progress"}`,
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		)

		require.Len(t, out, 1)
		require.NotNil(t, out[0].Error)
		assert.Equal(t, -32002, out[0].Error.Code)
	})

	t.Run("duplicate initialized notification is a no-op", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil,
			initializeLine,
			initializedLine,
			initializedLine,
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		)

		require.Len(t, out, 2)
		assert.Nil(t, out[1].Error)
	})
}

func TestServer_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("notifications never produce output", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil,
			`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			`{"jsonrpc":"2.0","method":"notifications/unknown"}`,
			`{"jsonrpc":"2.0","method":"tools/list"}`,
		)

		assert.Empty(t, out)
	})

	t.Run("unknown method returns method-not-found", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil, initializeLine, initializedLine,
			`{"jsonrpc":"2.0","id":3,"method":"bogus/method"}`)

		require.Len(t, out, 2)
		require.NotNil(t, out[1].Error)
		assert.Equal(t, -32601, out[1].Error.Code)
		assert.Equal(t, "3", string(out[1].ID))
	})

	t.Run("malformed line returns parse error with null id and loop continues", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil, "{not json", initializeLine)

		require.Len(t, out, 2)
		require.NotNil(t, out[0].Error)
		assert.Equal(t, -32700, out[0].Error.Code)
		assert.Equal(t, "null", string(out[0].ID))
		assert.Nil(t, out[1].Error)
	})

	t.Run("echoes string ids byte-exactly", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil, `{"jsonrpc":"2.0","id":"abc-1","method":"initialize","params":{}}`)

		require.Len(t, out, 1)
		assert.Equal(t, `"abc-1"`, string(out[0].ID))
	})

	t.Run("resources and prompts lists are empty collections", func(t *testing.T) {
		t.Parallel()

		out := serveLines(t, nil, initializeLine, initializedLine,
			`{"jsonrpc":"2.0","id":2,"method":"resources/list"}`,
			`{"jsonrpc":"2.0","id":3,"method":"prompts/list"}`,
		)

		require.Len(t, out, 3)
		assert.JSONEq(t, `{"resources":[]}`, string(out[1].Result))
		assert.JSONEq(t, `{"prompts":[]}`, string(out[2].Result))
	})
}

func TestServer_ToolsList(t *testing.T) {
	t.Parallel()

	out := serveLines(t, nil, initializeLine, initializedLine,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	require.Len(t, out, 2)
	require.Nil(t, out[1].Error)

	var result struct {
		Tools []struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			InputSchema json.RawMessage `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(out[1].Result, &result))

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.Contains(t, string(tool.InputSchema), `"type":"object"`)
	}
	assert.Equal(t, []string{
		"search_datatables",
		"get_function_details",
		"search_by_example",
		"search_by_topic",
		"get_related_items",
	}, names)
}

func TestServer_EndToEnd(t *testing.T) {
	t.Parallel()

	// The canonical session: initialize, readiness notification, tools/list.
	// Exactly two output lines; the second carries the five tool names.
	search := &mock.SearchService{}
	out := serveLines(t, search,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"clientInfo":{"name":"test"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)

	require.Len(t, out, 2)
	assert.Equal(t, "1", string(out[0].ID))
	assert.Equal(t, "2", string(out[1].ID))
	for _, name := range []string{"search_datatables", "get_function_details", "search_by_example", "search_by_topic", "get_related_items"} {
		assert.Contains(t, string(out[1].Result), name)
	}
}

func TestServer_EOFEndsLoopCleanly(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(nil, discardLogger())

	var out bytes.Buffer
	err := srv.Serve(context.Background(), strings.NewReader(""), &out)

	require.NoError(t, err)
	assert.Empty(t, out.String())
}
