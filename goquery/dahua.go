package goquery

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/camspec"
)

var _ camspec.Extractor = (*DahuaExtractor)(nil)

const (
	dahuaRowSelector   = "div.el-row"
	dahuaTitleSelector = "h3.title"
	dahuaTypeSelector  = "p.text"
	dahuaTableSelector = "table"
	dahuaTRSelector    = "tr"
	dahuaCellSelector  = "td"
)

// MaxSectionLength is the longest single-cell row, in characters, still
// taken as a section title. Longer rows are explanatory prose.
const MaxSectionLength = 100

// Explanatory DORI rows mention the marker along with one of the keywords.
const boilerplateMarker = "DORI"

var boilerplateKeywords = []string{"standard system", "ability", "distinguish", "en-62676-4"}

// DahuaExtractor extracts specifications from pages that lay them out as
// tables, stitching row-spanning and column-spanning cells back into lists
// of records.
type DahuaExtractor struct {
	logger *slog.Logger
}

// NewDahuaExtractor creates a DahuaExtractor.
func NewDahuaExtractor(opts ...Option) *DahuaExtractor {
	c := newConfig(opts)
	return &DahuaExtractor{logger: c.logger}
}

// Name returns the extractor name.
func (e *DahuaExtractor) Name() string {
	return string(camspec.ManufacturerDahua)
}

// Extract parses markup into a raw specification record. It never fails:
// unparsable markup or an unexpected structure yields an error record.
func (e *DahuaExtractor) Extract(markup, sourceURL string) (rec *camspec.Record) {
	defer recoverExtraction(e.Name(), e.logger, &rec)

	doc, err := Parse(markup)
	if err != nil {
		e.logger.Error("cannot parse page", "url", sourceURL, "error", err)
		return camspec.ErrorRecord(err)
	}
	root := doc.Root()

	rec = camspec.NewRecord()
	rec.EnsureSection(camspec.GeneralInformation)
	e.extractGeneral(root, rec)

	tables := QueryAll(root, dahuaTableSelector)
	if len(tables) == 0 {
		e.logger.Warn("no specification tables found", "url", sourceURL)
		return rec
	}
	e.logger.Debug("specification tables found", "count", len(tables))

	state := newSpanTable(rec, e.logger)
	for _, table := range tables {
		for _, tr := range QueryAll(table, dahuaTRSelector) {
			state.apply(readCells(tr))
		}
	}
	return cleanSpanRecord(rec)
}

// extractGeneral reads the identity block. When several rows carry a title
// or type the last one wins.
func (e *DahuaExtractor) extractGeneral(root *goquery.Selection, rec *camspec.Record) {
	var title, typ string
	for _, row := range QueryAll(root, dahuaRowSelector) {
		if el := QueryOne(row, dahuaTitleSelector); el != nil {
			title = camspec.CleanText(Text(el))
		}
		if el := QueryOne(row, dahuaTypeSelector); el != nil {
			typ = camspec.CleanText(Text(el))
		}
	}
	setGeneral(rec, camspec.KeyProductTitle, title, e.logger)
	setGeneral(rec, camspec.KeyProductType, typ, e.logger)
}

// cell is the part of a table cell the row classifier looks at.
type cell struct {
	text    string
	rowSpan bool
	colSpan bool
}

func readCells(tr *goquery.Selection) []cell {
	var cells []cell
	tr.ChildrenFiltered(dahuaCellSelector).Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, cell{
			text:    Text(td),
			rowSpan: HasAttr(td, "rowspan"),
			colSpan: HasAttr(td, "colspan"),
		})
	})
	return cells
}

// rowKind is how a table row was classified.
type rowKind int

const (
	rowEmpty rowKind = iota
	rowProse
	rowSection
	rowGroupKey
	rowGroupValues
	rowPair
	rowIgnored
)

func (k rowKind) String() string {
	switch k {
	case rowEmpty:
		return "empty"
	case rowProse:
		return "prose"
	case rowSection:
		return "section"
	case rowGroupKey:
		return "group key"
	case rowGroupValues:
		return "group values"
	case rowPair:
		return "pair"
	default:
		return "ignored"
	}
}

type groupKey struct {
	section string
	key     string
}

// spanTable is the extraction context of the spanning-table walk. It lives
// for every table of one page: the active section, the active row-spanning
// key and the column headers recorded for each (section, key) group.
type spanTable struct {
	rec     *camspec.Record
	section string
	key     string
	headers map[groupKey][]string
	logger  *slog.Logger
}

func newSpanTable(rec *camspec.Record, logger *slog.Logger) *spanTable {
	return &spanTable{
		rec:     rec,
		headers: make(map[groupKey][]string),
		logger:  logger,
	}
}

// apply classifies one row and folds it into the record.
func (t *spanTable) apply(cells []cell) rowKind {
	switch {
	case len(cells) == 0:
		return rowEmpty
	case len(cells) == 1:
		return t.startSection(cells[0].text)
	case cells[0].rowSpan:
		return t.startGroup(cells)
	case hasColSpan(cells) && t.section != "" && t.key != "":
		return t.appendGroupRow(cells)
	case len(cells) == 2 && t.section != "":
		key := camspec.CleanText(cells[0].text)
		if key == "" {
			return rowIgnored
		}
		t.rec.EnsureSection(t.section).SetScalar(key, camspec.CleanText(cells[1].text))
		return rowPair
	}
	return rowIgnored
}

func (t *spanTable) startSection(text string) rowKind {
	if isBoilerplate(text) || utf8.RuneCountInString(text) > MaxSectionLength {
		return rowProse
	}
	t.section = camspec.CleanText(text)
	t.key = ""
	if t.section != "" {
		t.rec.EnsureSection(t.section)
	}
	return rowSection
}

func (t *spanTable) startGroup(cells []cell) rowKind {
	t.key = camspec.CleanText(cells[0].text)
	if t.section == "" || t.key == "" {
		return rowGroupKey
	}
	t.headers[groupKey{t.section, t.key}] = spannedTexts(cells, func(c cell) bool { return !c.rowSpan })
	t.rec.EnsureSection(t.section).Set(t.key, camspec.Records())
	return rowGroupKey
}

func (t *spanTable) appendGroupRow(cells []cell) rowKind {
	headers, ok := t.headers[groupKey{t.section, t.key}]
	if !ok {
		return rowIgnored
	}
	values := spannedTexts(cells, func(c cell) bool { return c.colSpan })
	row := &camspec.Fields{}
	for i, v := range values {
		name := fmt.Sprintf("column_%d", i)
		if i < len(headers) {
			name = headers[i]
		}
		row.Set(name, v)
	}
	if row.Len() == 0 {
		return rowIgnored
	}
	group := t.rec.EnsureSection(t.section).Get(t.key)
	if group == nil || group.Kind != camspec.KindRecords {
		t.logger.Debug("group no longer holds records", "section", t.section, "key", t.key)
		return rowIgnored
	}
	group.Rows = append(group.Rows, row)
	return rowGroupValues
}

// spannedTexts returns the cleaned text of the cells keep selects, skipping
// cells that open with the boilerplate marker.
func spannedTexts(cells []cell, keep func(cell) bool) []string {
	out := []string{}
	for _, c := range cells {
		if !keep(c) || strings.HasPrefix(c.text, boilerplateMarker) {
			continue
		}
		out = append(out, camspec.CleanText(c.text))
	}
	return out
}

func hasColSpan(cells []cell) bool {
	for _, c := range cells {
		if c.colSpan {
			return true
		}
	}
	return false
}

func isBoilerplate(text string) bool {
	if !strings.Contains(text, boilerplateMarker) {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range boilerplateKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// cleanSpanRecord drops empty sections, turns empty record lists into empty
// groups and re-keys sections and first-level keys through CleanText.
func cleanSpanRecord(rec *camspec.Record) *camspec.Record {
	out := camspec.NewRecord()
	for _, name := range rec.Names() {
		sec := rec.Section(name)
		if name != camspec.GeneralInformation && sec.Len() == 0 {
			continue
		}
		clean := camspec.CleanText(name)
		if clean == "" {
			continue
		}
		dst := out.EnsureSection(clean)
		for _, key := range sec.Keys() {
			v := sec.Get(key)
			if v.Kind == camspec.KindRecords && len(v.Rows) == 0 {
				v = camspec.Group(nil)
			}
			dst.Set(camspec.CleanText(key), v)
		}
	}
	return out
}
