// Package fs provides file output for exporters and page samples.
package fs

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/camspec"
)

// BatchName is the base file name of batch exports.
const BatchName = "all_cameras"

// fallbackName names output for URLs without a usable path segment.
const fallbackName = "camera"

// WriteFile writes path atomically. The content produced by write goes to a
// temporary file in the target directory that is renamed over path on
// success and removed on failure.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		return fmt.Errorf("set file mode: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// FileName converts a product page URL into an output file name.
// The last path segment names the file, or the one before it when the URL
// ends with a slash. Example: https://example.com/products/DS-2CD2043G2-I/
// with FormatJSON becomes DS-2CD2043G2-I.json.
func FileName(rawURL string, format camspec.Format) string {
	return BaseName(rawURL) + format.Extension()
}

// BaseName returns the output file name of a URL without extension.
func BaseName(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		s = u.Path
		if u.RawQuery != "" {
			s += "?" + u.RawQuery
		}
	}

	parts := strings.Split(s, "/")
	name := parts[len(parts)-1]
	if strings.HasSuffix(s, "/") && len(parts) > 1 {
		name = parts[len(parts)-2]
	}

	name = strings.Map(func(r rune) rune {
		switch r {
		case '=', '?', '&', ':', '*', '"', '<', '>', '|', '\\':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return fallbackName
	}
	return name
}

// OutputDir returns the default output directory name for a run started at t.
func OutputDir(t time.Time) string {
	return "output_" + t.Format("20060102_150405")
}
