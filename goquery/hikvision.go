package goquery

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/camspec"
)

var _ camspec.Extractor = (*HikvisionExtractor)(nil)

// Selectors for the heading/list specification layout.
const (
	hikvisionTitleSelector     = "div.product_description_title_tag_container > div.product_description_title > h2"
	hikvisionTypeSelector      = "div > div.product-description-container > div > h1"
	hikvisionSectionSelector   = "ul.tech-specs-items-description[data-target]"
	hikvisionContainerSelector = "ul.tech-specs-items-description"
	hikvisionItemSelector      = "li.tech-specs-items-description-list"
	hikvisionHeadingSelector   = "span.tech-specs-items-description__title--heading"
	hikvisionKeySelector       = "span.tech-specs-items-description__title"
	hikvisionValueSelector     = "span.tech-specs-items-description__title-details"
	hikvisionSectionAttr       = "data-target"
)

// HikvisionFallbackSection receives list items that have no enclosing
// section container.
const HikvisionFallbackSection = "General"

// HikvisionExtractor extracts specifications from pages that lay them out
// as lists of labelled items grouped by a section attribute, with heading
// items opening nested groups.
type HikvisionExtractor struct {
	logger *slog.Logger
}

// NewHikvisionExtractor creates a HikvisionExtractor.
func NewHikvisionExtractor(opts ...Option) *HikvisionExtractor {
	c := newConfig(opts)
	return &HikvisionExtractor{logger: c.logger}
}

// Name returns the extractor name.
func (e *HikvisionExtractor) Name() string {
	return string(camspec.ManufacturerHikvision)
}

// Extract parses markup into a raw specification record. It never fails:
// unparsable markup or an unexpected structure yields an error record.
func (e *HikvisionExtractor) Extract(markup, sourceURL string) (rec *camspec.Record) {
	defer recoverExtraction(e.Name(), e.logger, &rec)

	doc, err := Parse(markup)
	if err != nil {
		e.logger.Error("cannot parse page", "url", sourceURL, "error", err)
		return camspec.ErrorRecord(err)
	}
	root := doc.Root()

	rec = camspec.NewRecord()
	rec.EnsureSection(camspec.GeneralInformation)
	setGeneral(rec, camspec.KeyProductTitle, camspec.CleanText(Text(QueryOne(root, hikvisionTitleSelector))), e.logger)
	setGeneral(rec, camspec.KeyProductType, camspec.CleanText(Text(QueryOne(root, hikvisionTypeSelector))), e.logger)

	// The document-wide pass only runs when the primary pass found no
	// section holding at least one item.
	if e.extractSections(root, rec) == 0 {
		e.logger.Info("no specification sections found, scanning all items", "url", sourceURL)
		e.extractItems(root, rec)
	}
	return rec
}

// extractSections walks every attributed section container and returns how
// many of them held items.
func (e *HikvisionExtractor) extractSections(root *goquery.Selection, rec *camspec.Record) int {
	containers := QueryAll(root, hikvisionSectionSelector)
	if len(containers) == 0 {
		e.logger.Warn("no specification sections found")
		return 0
	}
	e.logger.Debug("specification sections found", "count", len(containers))

	var count int
	for _, ul := range containers {
		name := sectionName(ul)
		if name == "" {
			continue
		}
		items := QueryAll(ul, hikvisionItemSelector)
		if len(items) == 0 {
			e.logger.Warn("section has no items", "section", name)
			continue
		}
		state := newSpecList(rec)
		state.enterSection(name)
		for _, li := range items {
			state.apply(readSpecItem(li))
		}
		count++
	}
	return count
}

// extractItems scans every list item in the document and attributes each
// to its nearest enclosing section container.
func (e *HikvisionExtractor) extractItems(root *goquery.Selection, rec *camspec.Record) {
	items := QueryAll(root, hikvisionItemSelector)
	if len(items) == 0 {
		e.logger.Warn("no specification items found")
		return
	}
	e.logger.Debug("specification items found", "count", len(items))

	state := newSpecList(rec)
	state.enterSection(HikvisionFallbackSection)
	for _, li := range items {
		if name := sectionName(li.Closest(hikvisionContainerSelector)); name != "" {
			state.enterSection(name)
		}
		state.apply(readSpecItem(li))
	}
}

func sectionName(ul *goquery.Selection) string {
	if ul == nil || ul.Length() == 0 {
		return ""
	}
	name, _ := Attr(ul, hikvisionSectionAttr)
	return camspec.CleanText(name)
}

// specItem is one classified list item.
type specItem struct {
	heading   string
	key       string
	value     string
	isHeading bool
	isPair    bool
}

func readSpecItem(li *goquery.Selection) specItem {
	if h := QueryOne(li, hikvisionHeadingSelector); h != nil {
		return specItem{heading: camspec.CleanText(Text(h)), isHeading: true}
	}
	k := QueryOne(li, hikvisionKeySelector)
	v := QueryOne(li, hikvisionValueSelector)
	if k == nil || v == nil {
		return specItem{}
	}
	return specItem{
		key:    camspec.CleanText(Text(k)),
		value:  camspec.CleanText(Text(v)),
		isPair: true,
	}
}

// specList is the extraction context of the heading/list walk: the active
// section and subsection. A subsection only materializes as a group once a
// pair lands in it.
type specList struct {
	rec        *camspec.Record
	section    string
	subsection string
	open       bool
}

func newSpecList(rec *camspec.Record) *specList {
	return &specList{rec: rec}
}

// enterSection makes name the active section. Switching to a different
// section closes the active subsection.
func (l *specList) enterSection(name string) {
	if name == l.section {
		return
	}
	l.section = name
	l.subsection = ""
	l.open = false
}

// apply folds one item into the record.
func (l *specList) apply(it specItem) {
	switch {
	case it.isHeading:
		l.subsection = it.heading
		l.open = false
	case it.isPair && it.key != "":
		body := l.rec.EnsureSection(l.section)
		if l.subsection == "" || l.subsection == l.section {
			body.SetScalar(it.key, it.value)
			return
		}
		if !l.open {
			body.Set(l.subsection, camspec.Group(nil))
			l.open = true
		}
		body.Get(l.subsection).Group.Set(it.key, it.value)
	}
}
