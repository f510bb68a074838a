package main

import (
	"fmt"

	"github.com/fwojciec/camspec"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	formats, err := parseFormats(c.Format)
	if err != nil {
		return err
	}

	var stored []*camspec.StoredRecord
	if len(c.URLs) > 0 {
		for _, url := range c.URLs {
			rec, err := deps.Records.FindRecordByURL(deps.Ctx, url)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s: %s\n", url, camspec.ErrorMessage(err))
				return err
			}
			stored = append(stored, rec)
		}
	} else {
		filter := camspec.RecordFilter{}
		if c.Manufacturer != "" {
			m := camspec.Manufacturer(c.Manufacturer)
			filter.Manufacturer = &m
		}
		stored, err = deps.Records.FindRecords(deps.Ctx, filter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", camspec.ErrorMessage(err))
			return err
		}
	}

	if len(stored) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'camspec scrape --db' to store some.")
		return nil
	}

	results := make([]camspec.BatchResult, len(stored))
	for i, s := range stored {
		results[i] = camspec.BatchResult{URL: s.SourceURL, Record: s.Record}
	}

	dir := outputDir(c.Out, deps.Now)
	exported := writeOutputs(deps, results, formats, dir)
	fmt.Fprintf(deps.Stdout, "Exported %d of %d records to %s\n", exported, len(results), dir)
	return nil
}
