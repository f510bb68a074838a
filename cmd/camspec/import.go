package main

import (
	"fmt"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/goquery"
	camspecjson "github.com/fwojciec/camspec/json"
)

// Run executes the import command. Failed and empty entries are skipped.
func (c *ImportCmd) Run(deps *Dependencies) error {
	results, err := camspecjson.LoadBatch(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", camspec.ErrorMessage(err))
		return err
	}

	detect := goquery.NewDefaultRegistry().Detect

	var imported int
	for _, res := range results {
		if res.Record.Empty() || res.Record.Failed() {
			fmt.Fprintf(deps.Stderr, "skipped %s: no data\n", res.URL)
			continue
		}
		stored := &camspec.StoredRecord{
			SourceURL:    res.URL,
			Manufacturer: detect(res.URL),
			Record:       res.Record,
		}
		if err := deps.Records.SaveRecord(deps.Ctx, stored); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", res.URL, camspec.ErrorMessage(err))
			return err
		}
		imported++
	}

	fmt.Fprintf(deps.Stdout, "Imported %d of %d records from %s\n", imported, len(results), c.File)
	return nil
}
