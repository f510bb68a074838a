package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	if c.Input != "" {
		fromFile, err := readURLs(c.Input)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return camspec.Errorf(camspec.EINVALID, "no URLs provided")
	}

	formats, err := parseFormats(c.Format)
	if err != nil {
		return err
	}
	dir := outputDir(c.Out, deps.Now)

	progress := func(p scrape.ProgressEvent) {
		switch p.Type {
		case scrape.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Scraping %d URLs\n", p.Total)
		case scrape.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", p.Completed, p.Total, p.URL)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s (failed)\n", p.Completed, p.Total, p.URL)
		}
	}

	results, err := deps.Scraper.ScrapeAll(deps.Ctx, urls, progress)
	if err != nil {
		if deps.Samples != nil {
			_ = deps.Samples.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error scraping: %v\n", err)
		return err
	}

	if deps.Samples != nil {
		if err := deps.Samples.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error saving page samples: %v\n", err)
		}
	}

	exported := writeOutputs(deps, results, formats, dir)
	fmt.Fprintf(deps.Stdout, "Exported %d of %d URLs to %s\n", exported, len(results), dir)
	if exported == 0 {
		return fmt.Errorf("no specifications extracted")
	}
	return nil
}

// readURLs reads one URL per line, skipping blank lines and # comments.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}
