package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/camspec"
)

// MaxSampleBytes caps the size of a saved page sample.
const MaxSampleBytes = 100000

// SampleStore saves fetched page markup for offline debugging of extractors.
// Samples are saved to a temporary directory, then moved atomically on Commit.
type SampleStore struct {
	baseDir string
	name    string
}

// NewSampleStore creates a new SampleStore.
// baseDir is the parent directory, name is the sample directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewSampleStore(baseDir, name string) *SampleStore {
	return &SampleStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *SampleStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *SampleStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the first MaxSampleBytes of markup to <name>.html.
func (s *SampleStore) Save(ctx context.Context, rawURL, markup string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(markup) > MaxSampleBytes {
		markup = strings.ToValidUTF8(markup[:MaxSampleBytes], "")
	}
	path := filepath.Join(s.tempDir(), BaseName(rawURL)+".html")
	return WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}

// Commit replaces the sample directory with the saved samples.
func (s *SampleStore) Commit() error {
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved samples.
func (s *SampleStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// Ensure SampleFetcher implements camspec.Fetcher at compile time.
var _ camspec.Fetcher = (*SampleFetcher)(nil)

// SampleFetcher saves a sample of every page fetched through it.
type SampleFetcher struct {
	next  camspec.Fetcher
	store *SampleStore
}

// NewSampleFetcher wraps next so fetched markup is saved to store.
func NewSampleFetcher(next camspec.Fetcher, store *SampleStore) *SampleFetcher {
	return &SampleFetcher{next: next, store: store}
}

// Fetch delegates to the wrapped fetcher and saves the markup it returns.
// A failed save does not fail the fetch.
func (f *SampleFetcher) Fetch(ctx context.Context, url string) (string, error) {
	markup, err := f.next.Fetch(ctx, url)
	if err != nil || strings.TrimSpace(markup) == "" {
		return markup, err
	}
	_ = f.store.Save(ctx, url, markup)
	return markup, nil
}

// Close closes the wrapped fetcher.
func (f *SampleFetcher) Close() error {
	return f.next.Close()
}
