package main

import (
	"fmt"

	"github.com/fwojciec/dtdocs/mcp"
	dtslog "github.com/fwojciec/dtdocs/slog"
)

// Run executes the serve command. It speaks the protocol on
// stdin/stdout until the client disconnects; all logging goes to
// stderr.
func (c *ServeCmd) Run(deps *Dependencies) error {
	search := dtslog.NewLoggingSearchService(deps.Search, deps.Logger)
	server := mcp.NewServer(search, deps.Logger)

	if err := server.Serve(deps.Ctx, deps.Stdin, deps.Stdout); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
