package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/csv"
	"github.com/fwojciec/camspec/etree"
	"github.com/fwojciec/camspec/fs"
	"github.com/fwojciec/camspec/goquery"
	camspechttp "github.com/fwojciec/camspec/http"
	camspecjson "github.com/fwojciec/camspec/json"
	"github.com/fwojciec/camspec/scrape"
	camslog "github.com/fwojciec/camspec/slog"
	"github.com/fwojciec/camspec/sqlite"
	"github.com/fwojciec/camspec/xlsx"
	"github.com/fwojciec/camspec/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened when a database path is configured.
	DB *sqlite.DB

	// Fetcher overrides the HTTP fetcher, for end-to-end testing.
	Fetcher camspec.Fetcher

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Now: time.Now}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    m.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("camspec"),
		kong.Description("Scrape security camera specifications from manufacturer product pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'camspec --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Exporters = NewExporters(deps.Logger)

	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set CAMSPEC_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Records = sqlite.NewRecordService(m.DB)
	} else if cmd != "scrape" && cmd != "merge" {
		return camspec.Errorf(camspec.EINVALID, "%s requires a database: set --db or CAMSPEC_DB", cmd)
	}

	if cmd == "scrape" {
		c := &cli.Scrape
		if c.Out == "" {
			c.Out = fs.OutputDir(m.Now())
		}

		var fetcher camspec.Fetcher = m.Fetcher
		if fetcher == nil {
			fetcher = camspechttp.NewFetcher(
				camspechttp.WithTimeout(c.Timeout),
				camspechttp.WithHeaders(c.Header),
			)
		}
		fetcher = camslog.NewLoggingFetcher(fetcher, deps.Logger)
		if c.SaveHTML {
			deps.Samples = fs.NewSampleStore(c.Out, "html")
			fetcher = fs.NewSampleFetcher(fetcher, deps.Samples)
		}
		defer fetcher.Close()

		registry := goquery.NewDefaultRegistry(goquery.WithLogger(deps.Logger))

		deps.Scraper = &scrape.Scraper{
			Fetcher:     fetcher,
			Extractors:  camslog.NewLoggingRegistry(registry, deps.Logger),
			RateLimiter: scrape.NewDomainLimiter(c.RPS),
			Records:     deps.Records,
			Concurrency: c.Concurrency,
			RetryDelays: scrape.BackoffDelays(c.Retries, scrape.DefaultRetryDelay),
			Logger:      deps.Logger,
		}
	}

	return kongCtx.Run(deps)
}

// NewExporters returns a logging exporter for every supported format.
func NewExporters(logger *slog.Logger) map[camspec.Format]camspec.Exporter {
	exporters := make(map[camspec.Format]camspec.Exporter)
	for _, e := range []camspec.Exporter{
		camspecjson.NewExporter(),
		csv.NewExporter(),
		xlsx.NewExporter(),
		etree.NewExporter(),
		yaml.NewExporter(),
	} {
		exporters[e.Format()] = camslog.NewLoggingExporter(e, logger)
	}
	return exporters
}
