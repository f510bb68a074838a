package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/fs"
	"github.com/fwojciec/camspec/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Now       func() time.Time
	Records   camspec.RecordService
	Scraper   *scrape.Scraper
	Exporters map[camspec.Format]camspec.Exporter
	Samples   *fs.SampleStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `env:"CAMSPEC_DB" help:"SQLite database storing scraped records"`
	Verbose bool   `short:"v" env:"CAMSPEC_VERBOSE" help:"Log debug output"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape product pages and export their specifications"`
	Export ExportCmd `cmd:"" help:"Export records stored in the database"`
	List   ListCmd   `cmd:"" help:"List records stored in the database"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored record"`
	Import ImportCmd `cmd:"" help:"Store the records of an exported JSON batch"`
	Merge  MergeCmd  `cmd:"" help:"Merge exported JSON records into one batch file"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs        []string          `arg:"" optional:"" name:"url" help:"Product page URLs"`
	Input       string            `short:"i" type:"existingfile" help:"File with one URL per line"`
	Format      []string          `short:"f" default:"json" enum:"json,csv,xlsx,xml,yaml,all" env:"CAMSPEC_FORMAT" help:"Export formats (repeatable): json, csv, xlsx, xml, yaml or all"`
	Out         string            `short:"o" env:"CAMSPEC_OUT" help:"Output directory (default: output_<timestamp>)"`
	Timeout     time.Duration     `short:"t" default:"30s" env:"CAMSPEC_TIMEOUT" help:"Fetch timeout per page"`
	Concurrency int               `short:"c" default:"3" env:"CAMSPEC_CONCURRENCY" help:"Concurrent scrape limit"`
	RPS         float64           `default:"1" env:"CAMSPEC_RPS" help:"Requests per second per domain (0 disables limiting)"`
	Retries     int               `default:"3" env:"CAMSPEC_RETRIES" help:"Fetch attempts per page"`
	Header      map[string]string `short:"H" help:"Request header as key=value (repeatable); replaces the default headers"`
	SaveHTML    bool              `name:"save-html" help:"Save fetched pages under <out>/html"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	URLs         []string `arg:"" optional:"" name:"url" help:"Export only these URLs"`
	Format       []string `short:"f" default:"json" enum:"json,csv,xlsx,xml,yaml,all" env:"CAMSPEC_FORMAT" help:"Export formats (repeatable): json, csv, xlsx, xml, yaml or all"`
	Out          string   `short:"o" env:"CAMSPEC_OUT" help:"Output directory (default: output_<timestamp>)"`
	Manufacturer string   `short:"m" help:"Only export records of this manufacturer"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Manufacturer string `short:"m" help:"Only list records of this manufacturer"`
	Failed       bool   `help:"Only list failed scrapes"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	URL string `arg:"" help:"Source URL of the record"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON batch file written by scrape (all_cameras.json)"`
}

// MergeCmd is the "merge" subcommand.
type MergeCmd struct {
	Files []string `arg:"" type:"existingfile" help:"JSON record files"`
	Out   string   `short:"o" default:"merged.json" help:"Merged output file"`
}
