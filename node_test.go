package scrape

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// fakeNode is a minimal element tree. Query matches descendants by element
// name in document order; the path "!" fails.
type fakeNode struct {
	name     string
	attrs    map[string]string
	text     string
	children []*fakeNode
}

var errBadPath = errors.New("bad path")

func el(name string, attrs map[string]string, text string, children ...*fakeNode) *fakeNode {
	return &fakeNode{name: name, attrs: attrs, text: text, children: children}
}

func (n *fakeNode) Query(path string) ([]Node, error) {
	if path == "!" {
		return nil, errBadPath
	}
	var out []Node
	var walk func(*fakeNode)
	walk = func(c *fakeNode) {
		for _, child := range c.children {
			if child.name == path {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(n)
	return out, nil
}

func (n *fakeNode) Name() string { return n.name }

func (n *fakeNode) ID() (string, bool) { return n.Attr("id") }

func (n *fakeNode) HasClass(class string) bool {
	for _, c := range strings.Fields(n.attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

func (n *fakeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *fakeNode) Text() string {
	var b strings.Builder
	b.WriteString(n.text)
	for _, c := range n.children {
		b.WriteString(c.Text())
	}
	return strings.TrimSpace(b.String())
}

func (n *fakeNode) HTML() (string, error) {
	inner, _ := n.InnerHTML()
	return "<" + n.name + ">" + inner + "</" + n.name + ">", nil
}

func (n *fakeNode) InnerHTML() (string, error) {
	var b strings.Builder
	b.WriteString(n.text)
	for _, c := range n.children {
		s, _ := c.HTML()
		b.WriteString(s)
	}
	return b.String(), nil
}

func (n *fakeNode) HTMLNodes() []*html.Node {
	node := &html.Node{Type: html.ElementNode, Data: n.name}
	for k, v := range n.attrs {
		node.Attr = append(node.Attr, html.Attribute{Key: k, Val: v})
	}
	return []*html.Node{node}
}
