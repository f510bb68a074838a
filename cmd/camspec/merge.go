package main

import (
	"fmt"

	"github.com/fwojciec/camspec"
	camspecjson "github.com/fwojciec/camspec/json"
)

// Run executes the merge command.
func (c *MergeCmd) Run(deps *Dependencies) error {
	results, skipped := camspecjson.Merge(c.Files)
	for path, err := range skipped {
		fmt.Fprintf(deps.Stderr, "skipped %s: %s\n", path, camspec.ErrorMessage(err))
	}
	if len(results) == 0 {
		return camspec.Errorf(camspec.EINVALID, "no records to merge")
	}

	if err := deps.Exporters[camspec.FormatJSON].ExportBatch(results, c.Out); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", camspec.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Merged %d of %d files into %s\n", len(results), len(c.Files), c.Out)
	return nil
}
