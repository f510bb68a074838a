// Package goquery implements camspec extractors on top of goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/camspec"
	"golang.org/x/net/html"
)

// Document is a parsed product page. Its queries never fail: an invalid
// selector or a miss yields nothing.
type Document struct {
	root *goquery.Selection
}

// Parse parses markup into a Document.
// Returns EINVALID for blank or unparsable markup.
func Parse(markup string) (*Document, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, camspec.Errorf(camspec.EINVALID, "empty markup")
	}
	node, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, camspec.Errorf(camspec.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{root: goquery.NewDocumentFromNode(node).Selection}, nil
}

// Root returns the document selection that queries start from.
func (d *Document) Root() *goquery.Selection {
	return d.root
}

// QueryOne returns the first descendant of root matching selector, or nil.
func QueryOne(root *goquery.Selection, selector string) *goquery.Selection {
	if root == nil || selector == "" {
		return nil
	}
	// goquery matches nothing for selectors it cannot compile.
	sel := root.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel
}

// QueryAll returns every descendant of root matching selector in document
// order.
func QueryAll(root *goquery.Selection, selector string) []*goquery.Selection {
	if root == nil || selector == "" {
		return nil
	}
	var out []*goquery.Selection
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// Text returns the trimmed text content of el, or "" for nil.
func Text(el *goquery.Selection) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// Attr returns the value of the named attribute of el.
func Attr(el *goquery.Selection, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	return el.Attr(name)
}

// HasAttr reports whether el carries the named attribute.
func HasAttr(el *goquery.Selection, name string) bool {
	_, ok := Attr(el, name)
	return ok
}
