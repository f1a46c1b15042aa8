package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/dtdocs"
	"github.com/fwojciec/dtdocs/scrape"
	"github.com/fwojciec/dtdocs/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	DB      *sqlite.DB
	Docs    dtdocs.DocService
	Search  dtdocs.SearchService
	Scraper *scrape.Scraper
	Logger  *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve  ServeCmd  `cmd:"" help:"Serve the documentation search API over stdio"`
	Scrape ScrapeCmd `cmd:"" help:"Scrape the DataTables documentation into the local database"`
	Search SearchCmd `cmd:"" help:"Search the scraped documentation"`
	Stats  StatsCmd  `cmd:"" help:"Show database statistics"`
	Export ExportCmd `cmd:"" help:"Export scraped docs as Markdown files"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL         string   `arg:"" optional:"" default:"https://datatables.net" help:"Documentation base URL"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
	RPS         float64  `name:"rps" default:"2" help:"Requests per second per domain"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   string `arg:"" help:"Search query"`
	Type    string `short:"t" help:"Restrict to a doc type (api, option, event, button, manual, example)"`
	Section string `short:"s" help:"Restrict to a section"`
	Limit   int    `short:"n" default:"10" help:"Maximum number of results"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir  string `arg:"" optional:"" default:"." help:"Parent directory for the export"`
	Name string `default:"datatables-docs" help:"Output directory name"`
}

// newLogger builds the stderr logger shared by all commands. Stdout is
// reserved for command output, and in serve mode for the protocol
// stream.
func newLogger(stderr io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
