package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/fs"
)

// parseFormats expands format flags into distinct formats, "all" standing
// for every supported format.
func parseFormats(names []string) ([]camspec.Format, error) {
	var formats []camspec.Format
	for _, name := range names {
		if name == "all" {
			return camspec.Formats(), nil
		}
		f, err := camspec.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []camspec.Format{camspec.FormatJSON}, nil
	}
	return formats, nil
}

func outputDir(out string, now func() time.Time) string {
	if out != "" {
		return out
	}
	if now == nil {
		now = time.Now
	}
	return fs.OutputDir(now())
}

// writeOutputs exports every usable record to its own file per format and,
// when there is more than one result, the whole batch to all_cameras files.
// It returns the number of records exported.
func writeOutputs(deps *Dependencies, results []camspec.BatchResult, formats []camspec.Format, dir string) int {
	var exported int
	for _, res := range results {
		switch {
		case res.Record.Failed():
			fmt.Fprintf(deps.Stderr, "failed %s: %s\n", res.URL, res.Record.Error)
			continue
		case res.Record.Empty():
			fmt.Fprintf(deps.Stderr, "no data extracted from %s\n", res.URL)
			continue
		}

		ok := true
		for _, f := range formats {
			path := filepath.Join(dir, fs.FileName(res.URL, f))
			if err := deps.Exporters[f].Export(res.Record, path); err != nil {
				fmt.Fprintf(deps.Stderr, "error exporting %s to %s: %s\n", res.URL, f, camspec.ErrorMessage(err))
				ok = false
				continue
			}
			fmt.Fprintf(deps.Stdout, "Saved %s\n", path)
		}
		if ok {
			exported++
		}
	}

	if len(results) > 1 {
		for _, f := range formats {
			path := filepath.Join(dir, fs.BatchName+f.Extension())
			if err := deps.Exporters[f].ExportBatch(results, path); err != nil {
				fmt.Fprintf(deps.Stderr, "error exporting batch to %s: %s\n", f, camspec.ErrorMessage(err))
				continue
			}
			fmt.Fprintf(deps.Stdout, "Saved %s\n", path)
		}
	}

	return exported
}
