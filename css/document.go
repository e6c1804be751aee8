// Package css selects elements of an HTML document with CSS selectors and
// extracts them into structs annotated with `css` tags.
package css

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"astuart.co/scrape"
)

// Document is a parsed HTML document.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses an HTML document from r.
func NewDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// NewDocumentFromString parses an HTML document held in a string.
func NewDocumentFromString(s string) (*Document, error) {
	return NewDocument(strings.NewReader(s))
}

// FromResponse reads and closes resp and parses its body. Unsuccessful
// responses are returned as *scrape.HTTPError.
func FromResponse(resp *http.Response) (*Document, error) {
	body, err := scrape.ReadResponse(resp)
	if err != nil {
		return nil, err
	}
	return NewDocument(bytes.NewReader(body))
}

// Root returns the document node as an element, so that the whole document
// can be extracted as a single implicit element.
func (d *Document) Root() *Element {
	return &Element{sel: d.doc.Selection}
}

// Select returns all elements of the document matching sel.
func (d *Document) Select(sel string) (*Selection, error) {
	return d.Root().Select(sel)
}

// Selection is the ordered result of a selector query.
type Selection struct {
	sel *goquery.Selection
}

// Len returns the number of matched elements.
func (s *Selection) Len() int {
	return s.sel.Length()
}

// First returns the first matched element.
func (s *Selection) First() (*Element, bool) {
	if s.sel.Length() == 0 {
		return nil, false
	}
	return &Element{sel: s.sel.First()}, true
}

// Items returns the matched elements in document order.
func (s *Selection) Items() []*Element {
	items := make([]*Element, 0, s.sel.Length())
	s.sel.Each(func(_ int, sel *goquery.Selection) {
		items = append(items, &Element{sel: sel})
	})
	return items
}

// Each calls fn for every matched element in document order.
func (s *Selection) Each(fn func(int, *Element)) {
	s.sel.Each(func(i int, sel *goquery.Selection) {
		fn(i, &Element{sel: sel})
	})
}

// Texts returns the trimmed text of every matched element.
func (s *Selection) Texts() []string {
	return s.sel.Map(func(_ int, sel *goquery.Selection) string {
		return strings.TrimSpace(sel.Text())
	})
}

// Element is a single matched element. It implements scrape.Node.
type Element struct {
	sel *goquery.Selection
}

var _ scrape.Node = (*Element)(nil)

// Name returns the element name.
func (e *Element) Name() string {
	return goquery.NodeName(e.sel)
}

// ID returns the trimmed id attribute.
func (e *Element) ID() (string, bool) {
	return e.Attr("id")
}

// HasClass reports whether the element has the class.
func (e *Element) HasClass(class string) bool {
	return e.sel.HasClass(class)
}

// Classes returns the classes of the element.
func (e *Element) Classes() []string {
	class, _ := e.sel.Attr("class")
	return strings.Fields(class)
}

// Attr returns the trimmed value of an attribute.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.sel.Attr(name)
	return strings.TrimSpace(v), ok
}

// Attrs returns the element's attributes in source order.
func (e *Element) Attrs() []html.Attribute {
	if len(e.sel.Nodes) == 0 {
		return nil
	}
	return e.sel.Nodes[0].Attr
}

// Text returns the trimmed text of the element and its descendants.
func (e *Element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

// HTML returns the outer HTML of the element.
func (e *Element) HTML() (string, error) {
	return goquery.OuterHtml(e.sel)
}

// InnerHTML returns the HTML of the element's children.
func (e *Element) InnerHTML() (string, error) {
	return e.sel.Html()
}

// Children returns the child elements.
func (e *Element) Children() []*Element {
	return (&Selection{sel: e.sel.Children()}).Items()
}

// Select returns the descendants of the element matching sel.
func (e *Element) Select(sel string) (*Selection, error) {
	m, err := compile(sel)
	if err != nil {
		return nil, err
	}
	return &Selection{sel: e.sel.FindMatcher(m)}, nil
}

// Query implements scrape.Node.
func (e *Element) Query(sel string) ([]scrape.Node, error) {
	s, err := e.Select(sel)
	if err != nil {
		return nil, err
	}
	nodes := make([]scrape.Node, 0, s.Len())
	for _, item := range s.Items() {
		nodes = append(nodes, item)
	}
	return nodes, nil
}

// HTMLNodes implements scrape.Node.
func (e *Element) HTMLNodes() []*html.Node {
	return e.sel.Nodes
}
