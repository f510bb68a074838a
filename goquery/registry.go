package goquery

import (
	"strings"

	"github.com/fwojciec/camspec"
)

var _ camspec.ExtractorRegistry = (*Registry)(nil)

// Registry maps manufacturers to extractors and resolves the manufacturer
// of a product page from its URL. Detection tries manufacturers in
// registration order and picks the first whose tag appears in the URL.
type Registry struct {
	order      []camspec.Manufacturer
	extractors map[camspec.Manufacturer]camspec.Extractor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[camspec.Manufacturer]camspec.Extractor),
	}
}

// NewDefaultRegistry creates a Registry holding every built-in extractor.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry()
	r.Register(camspec.ManufacturerHikvision, NewHikvisionExtractor(opts...))
	r.Register(camspec.ManufacturerDahua, NewDahuaExtractor(opts...))
	return r
}

// Detect returns the first registered manufacturer whose tag occurs in the
// lowercased url, or ManufacturerUnknown.
func (r *Registry) Detect(url string) camspec.Manufacturer {
	lower := strings.ToLower(url)
	for _, m := range r.order {
		if strings.Contains(lower, string(m)) {
			return m
		}
	}
	return camspec.ManufacturerUnknown
}

// Get returns the extractor for m, or nil if none is registered.
func (r *Registry) Get(m camspec.Manufacturer) camspec.Extractor {
	return r.extractors[normalizeManufacturer(m)]
}

// Register adds an extractor for m. Tags are case-insensitive.
// Registering an existing manufacturer replaces its extractor but keeps its
// detection position.
func (r *Registry) Register(m camspec.Manufacturer, e camspec.Extractor) {
	m = normalizeManufacturer(m)
	if m == camspec.ManufacturerUnknown {
		return
	}
	if _, ok := r.extractors[m]; !ok {
		r.order = append(r.order, m)
	}
	r.extractors[m] = e
}

// List returns the registered manufacturers in detection order.
func (r *Registry) List() []camspec.Manufacturer {
	out := make([]camspec.Manufacturer, len(r.order))
	copy(out, r.order)
	return out
}

func normalizeManufacturer(m camspec.Manufacturer) camspec.Manufacturer {
	return camspec.Manufacturer(strings.ToLower(strings.TrimSpace(string(m))))
}
