package mock

import "github.com/fwojciec/camspec"

var _ camspec.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of camspec.Extractor.
type Extractor struct {
	ExtractFn func(markup, sourceURL string) *camspec.Record
	NameFn    func() string
}

func (e *Extractor) Extract(markup, sourceURL string) *camspec.Record {
	return e.ExtractFn(markup, sourceURL)
}

func (e *Extractor) Name() string {
	return e.NameFn()
}

var _ camspec.ExtractorRegistry = (*ExtractorRegistry)(nil)

// ExtractorRegistry is a mock implementation of camspec.ExtractorRegistry.
type ExtractorRegistry struct {
	DetectFn   func(url string) camspec.Manufacturer
	GetFn      func(m camspec.Manufacturer) camspec.Extractor
	RegisterFn func(m camspec.Manufacturer, e camspec.Extractor)
	ListFn     func() []camspec.Manufacturer
}

func (r *ExtractorRegistry) Detect(url string) camspec.Manufacturer {
	return r.DetectFn(url)
}

func (r *ExtractorRegistry) Get(m camspec.Manufacturer) camspec.Extractor {
	return r.GetFn(m)
}

func (r *ExtractorRegistry) Register(m camspec.Manufacturer, e camspec.Extractor) {
	r.RegisterFn(m, e)
}

func (r *ExtractorRegistry) List() []camspec.Manufacturer {
	return r.ListFn()
}
