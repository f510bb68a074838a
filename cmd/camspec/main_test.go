package main_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/camspec"
	main "github.com/fwojciec/camspec/cmd/camspec"
	"github.com/fwojciec/camspec/goquery"
	"github.com/fwojciec/camspec/mock"
	"github.com/fwojciec/camspec/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hikvisionURL = "https://www.hikvision.com/en/products/DS-2CD2043G2-I/"
	dahuaURL     = "https://www.dahuasecurity.com/products/IPC-HFW2441S-S"
)

const hikvisionPage = `<!DOCTYPE html><html><body>
<div><div class="product-description-container"><div><h1>Bullet Camera</h1></div></div></div>
<div class="product_description_title_tag_container"><div class="product_description_title"><h2>DS-2CD2043G2-I</h2></div></div>
<ul class="tech-specs-items-description" data-target="Camera">
<li class="tech-specs-items-description-list"><span class="tech-specs-items-description__title">Shutter</span><span class="tech-specs-items-description__title-details">1/3 s</span></li>
</ul>
</body></html>`

const dahuaPage = `<!DOCTYPE html><html><body>
<div class="el-row"><h3 class="title">IPC-HFW2441S-S</h3></div>
<table><tr><td>Features</td></tr><tr><td>Night Vision</td><td>Yes</td></tr></table>
</body></html>`

func pageFetcher(pages map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			page, ok := pages[url]
			if !ok {
				return "", errors.New("HTTP 404")
			}
			return page, nil
		},
		CloseFn: func() error { return nil },
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func newDeps(t *testing.T, fetcher camspec.Fetcher) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	logger := slog.New(slog.DiscardHandler)
	deps := &main.Dependencies{
		Ctx:       context.Background(),
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    logger,
		Now:       fixedNow,
		Exporters: main.NewExporters(logger),
		Scraper: &scrape.Scraper{
			Fetcher:     fetcher,
			Extractors:  goquery.NewDefaultRegistry(),
			RetryDelays: []time.Duration{},
			Logger:      logger,
		},
	}
	return deps, stdout, stderr
}

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("exports each page and the batch", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps(t, pageFetcher(map[string]string{
			hikvisionURL: hikvisionPage,
			dahuaURL:     dahuaPage,
		}))
		out := t.TempDir()
		cmd := &main.ScrapeCmd{URLs: []string{hikvisionURL, dahuaURL}, Format: []string{"json", "csv"}, Out: out}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Empty(t, stderr.String())
		for _, name := range []string{
			"DS-2CD2043G2-I.json", "DS-2CD2043G2-I.csv",
			"IPC-HFW2441S-S.json", "IPC-HFW2441S-S.csv",
			"all_cameras.json", "all_cameras.csv",
		} {
			_, err := os.Stat(filepath.Join(out, name))
			assert.NoError(t, err, name)
		}
		assert.Contains(t, stdout.String(), "Exported 2 of 2 URLs")

		content, err := os.ReadFile(filepath.Join(out, "DS-2CD2043G2-I.json"))
		require.NoError(t, err)
		assert.Contains(t, string(content), `"Manufacturer": "Hikvision"`)
		assert.Contains(t, string(content), `"Shutter": "1/3 s"`)
	})

	t.Run("writes no batch file for a single URL", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(t, pageFetcher(map[string]string{dahuaURL: dahuaPage}))
		out := t.TempDir()
		cmd := &main.ScrapeCmd{URLs: []string{dahuaURL}, Format: []string{"yaml"}, Out: out}

		require.NoError(t, cmd.Run(deps))

		_, err := os.Stat(filepath.Join(out, "IPC-HFW2441S-S.yaml"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(out, "all_cameras.yaml"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("all expands to every format", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(t, pageFetcher(map[string]string{dahuaURL: dahuaPage}))
		out := t.TempDir()
		cmd := &main.ScrapeCmd{URLs: []string{dahuaURL}, Format: []string{"all"}, Out: out}

		require.NoError(t, cmd.Run(deps))

		entries, err := os.ReadDir(out)
		require.NoError(t, err)
		assert.Len(t, entries, len(camspec.Formats()))
	})

	t.Run("reports unsupported and unreachable pages", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t, pageFetcher(map[string]string{dahuaURL: dahuaPage}))
		cmd := &main.ScrapeCmd{
			URLs:   []string{dahuaURL, "https://www.axis.com/products/m3106", "https://www.hikvision.com/en/missing"},
			Format: []string{"json"},
			Out:    t.TempDir(),
		}

		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stderr.String(), "failed https://www.axis.com/products/m3106")
		assert.Contains(t, stderr.String(), "no data extracted from https://www.hikvision.com/en/missing")
	})

	t.Run("fails when nothing was extracted", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(t, pageFetcher(nil))
		cmd := &main.ScrapeCmd{URLs: []string{dahuaURL}, Format: []string{"json"}, Out: t.TempDir()}

		err := cmd.Run(deps)

		require.Error(t, err)
	})

	t.Run("reads URLs from an input file", func(t *testing.T) {
		t.Parallel()

		input := filepath.Join(t.TempDir(), "urls.txt")
		require.NoError(t, os.WriteFile(input, []byte("# cameras\n\n"+dahuaURL+"\n"), 0644))
		deps, _, _ := newDeps(t, pageFetcher(map[string]string{dahuaURL: dahuaPage}))
		out := t.TempDir()
		cmd := &main.ScrapeCmd{Input: input, Format: []string{"json"}, Out: out}

		require.NoError(t, cmd.Run(deps))

		_, err := os.Stat(filepath.Join(out, "IPC-HFW2441S-S.json"))
		assert.NoError(t, err)
	})

	t.Run("requires URLs", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(t, pageFetcher(nil))

		err := (&main.ScrapeCmd{Format: []string{"json"}}).Run(deps)

		assert.Equal(t, camspec.EINVALID, camspec.ErrorCode(err))
	})

	t.Run("defaults the output directory to a timestamped name", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(t, pageFetcher(nil))
		cmd := &main.ScrapeCmd{URLs: []string{dahuaURL}, Format: []string{"json"}}

		_ = cmd.Run(deps)

		assert.Contains(t, stdout.String(), "output_20240309_140507")
	})
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	stored := func(url, title string) *camspec.StoredRecord {
		rec := camspec.NewRecord()
		rec.EnsureSection(camspec.GeneralInformation).SetScalar(camspec.KeyProductTitle, title)
		return &camspec.StoredRecord{ID: title, SourceURL: url, Record: rec}
	}

	t.Run("exports stored records", func(t *testing.T) {
		t.Parallel()

		var gotFilter camspec.RecordFilter
		deps, stdout, _ := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordsFn: func(_ context.Context, filter camspec.RecordFilter) ([]*camspec.StoredRecord, error) {
				gotFilter = filter
				return []*camspec.StoredRecord{stored(hikvisionURL, "a"), stored(dahuaURL, "b")}, nil
			},
		}
		out := t.TempDir()

		err := (&main.ExportCmd{Format: []string{"xml"}, Out: out, Manufacturer: "dahua"}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.Manufacturer)
		assert.Equal(t, camspec.ManufacturerDahua, *gotFilter.Manufacturer)
		for _, name := range []string{"DS-2CD2043G2-I.xml", "IPC-HFW2441S-S.xml", "all_cameras.xml"} {
			_, err := os.Stat(filepath.Join(out, name))
			assert.NoError(t, err, name)
		}
		assert.Contains(t, stdout.String(), "Exported 2 of 2 records")
	})

	t.Run("exports selected URLs", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordByURLFn: func(_ context.Context, url string) (*camspec.StoredRecord, error) {
				return stored(url, "a"), nil
			},
		}
		out := t.TempDir()

		require.NoError(t, (&main.ExportCmd{URLs: []string{dahuaURL}, Format: []string{"json"}, Out: out}).Run(deps))

		_, err := os.Stat(filepath.Join(out, "IPC-HFW2441S-S.json"))
		assert.NoError(t, err)
	})

	t.Run("reports unknown URLs", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordByURLFn: func(_ context.Context, url string) (*camspec.StoredRecord, error) {
				return nil, camspec.Errorf(camspec.ENOTFOUND, "record not found")
			},
		}

		err := (&main.ExportCmd{URLs: []string{dahuaURL}, Format: []string{"json"}, Out: t.TempDir()}).Run(deps)

		assert.Equal(t, camspec.ENOTFOUND, camspec.ErrorCode(err))
		assert.Contains(t, stderr.String(), "record not found")
	})

	t.Run("shows helpful message when no records exist", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordsFn: func(_ context.Context, _ camspec.RecordFilter) ([]*camspec.StoredRecord, error) {
				return nil, nil
			},
		}

		require.NoError(t, (&main.ExportCmd{Format: []string{"json"}, Out: t.TempDir()}).Run(deps))

		assert.Contains(t, stdout.String(), "No records found")
	})
}

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists records with status", func(t *testing.T) {
		t.Parallel()

		ok := camspec.NewRecord()
		ok.EnsureSection(camspec.GeneralInformation).SetScalar(camspec.KeyProductTitle, "IPC")
		deps, stdout, _ := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordsFn: func(_ context.Context, filter camspec.RecordFilter) ([]*camspec.StoredRecord, error) {
				return []*camspec.StoredRecord{
					{ID: "rec-1", SourceURL: dahuaURL, Manufacturer: camspec.ManufacturerDahua, Record: ok, ScrapedAt: fixedNow()},
					{ID: "rec-2", SourceURL: hikvisionURL, Manufacturer: camspec.ManufacturerHikvision, Record: camspec.ErrorRecord(errors.New("boom")), ScrapedAt: fixedNow()},
				}, nil
			},
		}

		require.NoError(t, (&main.ListCmd{}).Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "rec-1  Dahua  "+dahuaURL+"  2024-03-09 14:05:07  1 sections")
		assert.Contains(t, output, "rec-2  Hikvision")
		assert.Contains(t, output, "failed: boom")
	})

	t.Run("passes filters", func(t *testing.T) {
		t.Parallel()

		var gotFilter camspec.RecordFilter
		deps, _, _ := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordsFn: func(_ context.Context, filter camspec.RecordFilter) ([]*camspec.StoredRecord, error) {
				gotFilter = filter
				return nil, nil
			},
		}

		require.NoError(t, (&main.ListCmd{Manufacturer: "hikvision", Failed: true}).Run(deps))

		assert.True(t, gotFilter.FailedOnly)
		require.NotNil(t, gotFilter.Manufacturer)
		assert.Equal(t, camspec.ManufacturerHikvision, *gotFilter.Manufacturer)
	})

	t.Run("returns store errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordsFn: func(_ context.Context, _ camspec.RecordFilter) ([]*camspec.StoredRecord, error) {
				return nil, errors.New("disk full")
			},
		}

		require.Error(t, (&main.ListCmd{}).Run(deps))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes the record of a URL", func(t *testing.T) {
		t.Parallel()

		var deleted string
		deps, stdout, _ := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordByURLFn: func(_ context.Context, url string) (*camspec.StoredRecord, error) {
				return &camspec.StoredRecord{ID: "rec-1", SourceURL: url}, nil
			},
			DeleteRecordFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		require.NoError(t, (&main.DeleteCmd{URL: dahuaURL}).Run(deps))

		assert.Equal(t, "rec-1", deleted)
		assert.Contains(t, stdout.String(), "Deleted record for "+dahuaURL)
	})

	t.Run("returns ENOTFOUND for unknown URL", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(t, nil)
		deps.Records = &mock.RecordService{
			FindRecordByURLFn: func(_ context.Context, url string) (*camspec.StoredRecord, error) {
				return nil, camspec.Errorf(camspec.ENOTFOUND, "record not found")
			},
		}

		err := (&main.DeleteCmd{URL: dahuaURL}).Run(deps)

		assert.Equal(t, camspec.ENOTFOUND, camspec.ErrorCode(err))
	})
}

func storedRecord(title string) *camspec.Record {
	rec := camspec.NewRecord()
	rec.EnsureSection(camspec.GeneralInformation).SetScalar(camspec.KeyProductTitle, title)
	rec.EnsureSection("Camera").SetScalar("Shutter", "1/3 s")
	return rec
}

func TestImportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("stores successful records with their manufacturer", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps(t, nil)
		path := filepath.Join(t.TempDir(), "all_cameras.json")
		require.NoError(t, deps.Exporters[camspec.FormatJSON].ExportBatch([]camspec.BatchResult{
			{URL: hikvisionURL, Record: storedRecord("DS-2CD2043G2-I")},
			{URL: dahuaURL, Record: camspec.ErrorRecord(errors.New("timeout"))},
		}, path))

		var saved []*camspec.StoredRecord
		deps.Records = &mock.RecordService{
			SaveRecordFn: func(_ context.Context, rec *camspec.StoredRecord) error {
				saved = append(saved, rec)
				return nil
			},
		}

		require.NoError(t, (&main.ImportCmd{File: path}).Run(deps))

		require.Len(t, saved, 1)
		assert.Equal(t, hikvisionURL, saved[0].SourceURL)
		assert.Equal(t, camspec.ManufacturerHikvision, saved[0].Manufacturer)
		assert.Contains(t, stderr.String(), "skipped "+dahuaURL)
		assert.Contains(t, stdout.String(), "Imported 1 of 2 records")
	})

	t.Run("returns EINVALID for a file that is not a batch", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(t, nil)
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0o644))

		err := (&main.ImportCmd{File: path}).Run(deps)

		assert.Equal(t, camspec.EINVALID, camspec.ErrorCode(err))
	})
}

func TestMergeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes one batch keyed by file name", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(t, nil)
		dir := t.TempDir()
		first := filepath.Join(dir, "DS-2CD2043G2-I.json")
		second := filepath.Join(dir, "IPC-HFW2441S-S.json")
		require.NoError(t, deps.Exporters[camspec.FormatJSON].Export(storedRecord("DS-2CD2043G2-I"), first))
		require.NoError(t, deps.Exporters[camspec.FormatJSON].Export(storedRecord("IPC-HFW2441S-S"), second))
		out := filepath.Join(dir, "merged.json")

		require.NoError(t, (&main.MergeCmd{Files: []string{first, second}, Out: out}).Run(deps))

		content, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"DS-2CD2043G2-I": {`)
		assert.Contains(t, string(content), `"IPC-HFW2441S-S": {`)
		assert.Contains(t, stdout.String(), "Merged 2 of 2 files")
	})

	t.Run("fails when no file holds a record", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t, nil)
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

		err := (&main.MergeCmd{Files: []string{path}, Out: filepath.Join(t.TempDir(), "merged.json")}).Run(deps)

		assert.Equal(t, camspec.EINVALID, camspec.ErrorCode(err))
		assert.Contains(t, stderr.String(), "skipped "+path)
	})
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error without arguments", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "scrape")
	})

	t.Run("shows help", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "export")
	})

	t.Run("merge runs without a database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "cam.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"Camera": {"Shutter": "1/3 s"}}`), 0o644))
		out := filepath.Join(dir, "merged.json")

		err := main.NewMain().Run(context.Background(), []string{"merge", "-o", out, path}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		_, err = os.Stat(out)
		assert.NoError(t, err)
	})

	t.Run("store commands require a database", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(context.Background(), []string{"list"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, camspec.EINVALID, camspec.ErrorCode(err))
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(context.Background(), []string{"scrape", "-f", "pdf", dahuaURL}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})

	t.Run("scrapes into the database and re-exports", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "camspec.db")
		scrapeOut := t.TempDir()
		exportOut := t.TempDir()

		m := main.NewMain()
		m.Now = fixedNow
		m.Fetcher = pageFetcher(map[string]string{dahuaURL: dahuaPage})
		err := m.Run(context.Background(),
			[]string{"scrape", "--db", dbPath, "--out", scrapeOut, "--rps", "0", "--retries", "1", dahuaURL},
			&bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		stdout := &bytes.Buffer{}
		err = main.NewMain().Run(context.Background(), []string{"list", "--db", dbPath}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), dahuaURL)

		err = main.NewMain().Run(context.Background(),
			[]string{"export", "--db", dbPath, "--out", exportOut, "-f", "csv"},
			&bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(exportOut, "IPC-HFW2441S-S.csv"))
		assert.NoError(t, err)
	})

	t.Run("saves page samples", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		m := main.NewMain()
		m.Fetcher = pageFetcher(map[string]string{dahuaURL: dahuaPage})

		err := m.Run(context.Background(),
			[]string{"scrape", "--out", out, "--rps", "0", "--save-html", dahuaURL},
			&bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(out, "html", "IPC-HFW2441S-S.html"))
		assert.NoError(t, err)
	})
}
