package main

import (
	"fmt"

	"github.com/fwojciec/camspec"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	rec, err := deps.Records.FindRecordByURL(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", camspec.ErrorMessage(err))
		return err
	}

	if err := deps.Records.DeleteRecord(deps.Ctx, rec.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", camspec.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted record for %s\n", c.URL)
	return nil
}
