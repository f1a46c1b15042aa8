// Package mcp implements a Model Context Protocol server over stdio.
// Transport is newline-delimited JSON-RPC 2.0 on stdin/stdout; diagnostics
// go to stderr so they never corrupt the protocol framing.
package mcp

import "encoding/json"

// protocolVersion is the MCP protocol revision this server implements.
const protocolVersion = "2024-11-05"

// jsonRPCVersion is the fixed JSON-RPC version tag on every envelope.
const jsonRPCVersion = "2.0"

// Lifecycle method names.
const (
	methodInitialize  = "initialize"
	methodInitialized = "notifications/initialized"
)

// request is an incoming JSON-RPC 2.0 request or notification.
// The ID is carried opaquely so numeric and string ids echo byte-exactly.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification returns true if the message carries no id.
// Notifications are never answered.
func (r *request) isNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// response is an outgoing JSON-RPC 2.0 response. The id field is always
// present; a parse error that recovered no request identity carries null.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is a JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard JSON-RPC 2.0 error codes, plus the server-defined code reported
// when a request arrives before the initialization handshake completes.
const (
	errCodeParse          = -32700
	errCodeInvalidRequest = -32600
	errCodeMethodNotFound = -32601
	errCodeInvalidParams  = -32602
	errCodeInternal       = -32603
	errCodeNotInitialized = -32002
)

func okResponse(id json.RawMessage, result any) *response {
	return &response{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

func errResponse(id json.RawMessage, code int, message string) *response {
	return &response{JSONRPC: jsonRPCVersion, ID: id, Error: &rpcError{Code: code, Message: message}}
}

// initializeParams is the client's initialize request payload.
type initializeParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ClientInfo      clientInfo `json:"clientInfo"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// initializeResult is the server's response to an initialize request.
type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      serverInfo         `json:"serverInfo"`
}

// serverCapabilities advertises the capability groups. Each is an empty
// object marker: present, with no sub-features.
type serverCapabilities struct {
	Tools     struct{} `json:"tools"`
	Resources struct{} `json:"resources"`
	Prompts   struct{} `json:"prompts"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Tool describes one callable operation in tools/list responses.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is the JSON-Schema-like parameter description for a tool.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single tool parameter.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// toolsListResult is the response to tools/list.
type toolsListResult struct {
	Tools []Tool `json:"tools"`
}

// toolCallParams is the request payload for tools/call.
type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// toolCallResult is the response payload for tools/call.
type toolCallResult struct {
	Content []textContent `json:"content"`
}

// textContent is a text content block in tool results.
type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(text string) toolCallResult {
	return toolCallResult{Content: []textContent{{Type: "text", Text: text}}}
}

// resourcesListResult is the response to resources/list. Resources are
// advertised but not implemented, so the collection is always empty.
type resourcesListResult struct {
	Resources []any `json:"resources"`
}

// promptsListResult is the response to prompts/list, likewise always empty.
type promptsListResult struct {
	Prompts []any `json:"prompts"`
}
