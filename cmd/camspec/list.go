package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/camspec"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := camspec.RecordFilter{FailedOnly: c.Failed}
	if c.Manufacturer != "" {
		m := camspec.Manufacturer(c.Manufacturer)
		filter.Manufacturer = &m
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", camspec.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'camspec scrape --db' to store some.")
		return nil
	}

	for _, r := range records {
		status := fmt.Sprintf("%d sections", r.Record.Len())
		if r.Record.Failed() {
			status = "failed: " + r.Record.Error
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n",
			r.ID, r.Manufacturer.Title(), r.SourceURL, r.ScrapedAt.Format(time.DateTime), status)
	}

	return nil
}
