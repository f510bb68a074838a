// Package scrape orchestrates product page scraping: manufacturer
// detection, fetching with retry, extraction, provenance annotation and
// normalization, for one URL or a batch.
package scrape

import (
	"context"
	"log/slog"
	neturl "net/url"
	"strings"
	"time"

	"github.com/fwojciec/camspec"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of URLs a batch scrapes at once.
const DefaultConcurrency = 3

// Scraper turns product page URLs into canonical specification records.
type Scraper struct {
	Fetcher     camspec.Fetcher
	Extractors  camspec.ExtractorRegistry
	RateLimiter camspec.DomainLimiter // optional
	Records     camspec.RecordService // optional; every scraped record is saved
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Scrape scrapes one product page.
//
// An unrecognized manufacturer fails with EUNSUPPORTED before anything is
// fetched. A page that cannot be fetched yields an empty record and no
// error; an extraction failure yields an error record. Successful records
// carry the source URL and manufacturer in their general information and
// are returned organized.
func (s *Scraper) Scrape(ctx context.Context, url string) (*camspec.Record, error) {
	if url == "" {
		return nil, camspec.Errorf(camspec.EINVALID, "URL required")
	}
	logger := s.logger()

	m := s.Extractors.Detect(url)
	if m == camspec.ManufacturerUnknown {
		logger.Warn("unsupported manufacturer", "url", url)
		return nil, camspec.Errorf(camspec.EUNSUPPORTED, "unsupported or unknown manufacturer for URL: %s", url)
	}
	extractor := s.Extractors.Get(m)
	if extractor == nil {
		return nil, camspec.Errorf(camspec.EUNSUPPORTED, "no extractor registered for %s", m.Title())
	}
	logger.Info("manufacturer detected", "url", url, "manufacturer", string(m))

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	var waitErr error
	fetch := func(ctx context.Context, url string) (string, error) {
		if err := s.wait(ctx, url); err != nil {
			waitErr = err
			return "", Permanent(err)
		}
		return s.Fetcher.Fetch(ctx, url)
	}
	markup, err := FetchWithRetry(ctx, url, fetch, logger, delays)
	if err != nil {
		if waitErr != nil {
			return nil, waitErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Error("cannot fetch page", "url", url, "error", err)
		return camspec.NewRecord(), nil
	}

	rec := extractor.Extract(markup, url)
	switch {
	case rec == nil || rec.Empty():
		logger.Warn("no data extracted", "url", url)
		return camspec.NewRecord(), nil
	case !rec.Failed():
		gi := rec.EnsureSection(camspec.GeneralInformation)
		gi.SetScalar(camspec.KeySourceURL, url)
		gi.SetScalar(camspec.KeyManufacturer, m.Title())
	}
	rec = camspec.Organize(rec)

	s.save(ctx, url, m, rec)
	return rec, nil
}

// ScrapeAll scrapes every distinct URL in urls, at most Concurrency at a
// time. Results follow the first-seen order of urls. A URL that fails
// yields an error record in its slot and never stops the batch; only
// cancellation of ctx does.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, progress ProgressFunc) ([]camspec.BatchResult, error) {
	urls = Dedupe(urls)
	total := len(urls)

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	type scrapeResult struct {
		position int
		record   *camspec.Record
		err      error
	}
	resultCh := make(chan scrapeResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, url := range urls {
			g.Go(func() error {
				rec, err := s.Scrape(gctx, url)
				resultCh <- scrapeResult{position: i, record: rec, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]camspec.BatchResult, total)
	var completed int
	for r := range resultCh {
		completed++
		url := urls[r.position]
		rec := r.record
		if r.err != nil {
			s.logger().Error("scrape failed", "url", url, "error", r.err)
			rec = camspec.ErrorRecord(r.err)
		}
		results[r.position] = camspec.BatchResult{URL: url, Record: rec}

		if progress == nil {
			continue
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: url}
		if rec.Failed() {
			event.Type = ProgressFailed
			event.Error = r.err
			if event.Error == nil {
				event.Error = camspec.Errorf(camspec.EINTERNAL, "%s", rec.Error)
			}
		}
		progress(event)
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return results, nil
}

func (s *Scraper) save(ctx context.Context, url string, m camspec.Manufacturer, rec *camspec.Record) {
	if s.Records == nil || rec.Empty() {
		return
	}
	stored := &camspec.StoredRecord{
		SourceURL:    url,
		Manufacturer: m,
		Record:       rec,
	}
	if err := s.Records.SaveRecord(ctx, stored); err != nil {
		s.logger().Warn("cannot save record", "url", url, "error", err)
	}
}

// wait takes a rate limit token for the site of url. Every fetch attempt,
// retries included, takes its own token.
func (s *Scraper) wait(ctx context.Context, url string) error {
	if s.RateLimiter == nil {
		return nil
	}
	return s.RateLimiter.Wait(ctx, Domain(url))
}

// Domain returns the lowercased host of rawURL, or rawURL itself when it
// has no host. Rate limits are kept per Domain.
func Domain(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.ToLower(u.Hostname())
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
