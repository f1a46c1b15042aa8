package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dtdocs"
	"github.com/fwojciec/dtdocs/goquery"
	"github.com/fwojciec/dtdocs/htmltomarkdown"
	dthttp "github.com/fwojciec/dtdocs/http"
	"github.com/fwojciec/dtdocs/scrape"
	dtslog "github.com/fwojciec/dtdocs/slog"
	"github.com/fwojciec/dtdocs/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocService    dtdocs.DocService
	SearchService dtdocs.SearchService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dtdocs"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'dtdocs --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DTDOCS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.DocService = sqlite.NewDocService(m.DB)
	m.SearchService = sqlite.NewSearchService(m.DB)
	deps.DB = m.DB
	deps.Docs = m.DocService
	deps.Search = m.SearchService
	deps.Logger = newLogger(stderr)

	if cmd == "scrape" {
		fetcher := dthttp.NewFetcher()
		defer fetcher.Close()

		deps.Scraper = &scrape.Scraper{
			Sitemaps:     dtslog.NewLoggingSitemapService(dthttp.NewSitemapService(nil), deps.Logger),
			Fetcher:      dtslog.NewLoggingFetcher(fetcher, deps.Logger),
			Extractor:    goquery.NewExtractor(),
			Converter:    htmltomarkdown.NewConverter(),
			Docs:         m.DocService,
			RateLimiter:  scrape.NewDomainLimiter(cli.Scrape.RPS),
			ExtractLinks: goquery.ExtractLinks,
			Concurrency:  cli.Scrape.Concurrency,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("DTDOCS_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "dtdocs.db"
	}
	dir := filepath.Join(home, ".dtdocs")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "dtdocs.db")
}
