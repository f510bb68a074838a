package camspec

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Manufacturer identifies a camera manufacturer whose product pages can be
// extracted.
type Manufacturer string

// Supported manufacturers.
const (
	ManufacturerUnknown   Manufacturer = ""
	ManufacturerHikvision Manufacturer = "hikvision"
	ManufacturerDahua     Manufacturer = "dahua"
)

// Title returns the display form of the manufacturer name ("Hikvision").
func (m Manufacturer) Title() string {
	return cases.Title(language.English).String(string(m))
}

// Extractor turns a manufacturer's product page into a Specification Record.
type Extractor interface {
	// Extract parses markup and returns the raw record. It never fails:
	// an extraction problem yields a record whose Error is set.
	// The sourceURL is used for provenance only.
	Extract(markup string, sourceURL string) *Record

	// Name returns the extractor's identifier (e.g., "hikvision").
	Name() string
}

// ExtractorRegistry dispatches product pages to manufacturer extractors.
type ExtractorRegistry interface {
	// Detect identifies the manufacturer from a product URL.
	// Returns ManufacturerUnknown if no registered manufacturer matches.
	Detect(url string) Manufacturer

	// Get returns the extractor for a manufacturer.
	// Returns nil if no extractor is registered for the manufacturer.
	Get(m Manufacturer) Extractor

	// Register adds an extractor for a manufacturer, replacing any
	// previously registered one.
	Register(m Manufacturer, e Extractor)

	// List returns the registered manufacturers in registration order.
	List() []Manufacturer
}
