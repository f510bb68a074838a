package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/camspec"
)

// Load reads a record written by Exporter.Export.
// Returns ENOTFOUND if path does not exist and EINVALID if it does not hold
// a record object.
func Load(path string) (*camspec.Record, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	rec := camspec.NewRecord()
	if err := rec.UnmarshalJSON(data); err != nil {
		return nil, camspec.Errorf(camspec.EINVALID, "%s: %v", path, err)
	}
	return rec, nil
}

// LoadBatch reads a batch written by Exporter.ExportBatch, keeping the
// file's URL order.
func LoadBatch(path string) ([]camspec.BatchResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	results, err := decodeBatch(data)
	if err != nil {
		return nil, camspec.Errorf(camspec.EINVALID, "%s: %v", path, err)
	}
	return results, nil
}

// Merge loads the record files at paths into one batch keyed by each file's
// name without extension. Files that cannot be loaded are returned in
// skipped with their errors; they never stop the merge.
func Merge(paths []string) (results []camspec.BatchResult, skipped map[string]error) {
	for _, path := range paths {
		rec, err := Load(path)
		if err != nil {
			if skipped == nil {
				skipped = make(map[string]error)
			}
			skipped[path] = err
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		results = append(results, camspec.BatchResult{URL: name, Record: rec})
	}
	return results, skipped
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, camspec.Errorf(camspec.ENOTFOUND, "file not found: %s", path)
	}
	return data, err
}

func decodeBatch(data []byte) ([]camspec.BatchResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errors.New("expected a JSON object")
	}

	var results []camspec.BatchResult
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		url, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		rec := camspec.NewRecord()
		if err := rec.UnmarshalJSON(raw); err != nil {
			return nil, err
		}
		results = append(results, camspec.BatchResult{URL: url, Record: rec})
	}
	return results, nil
}
