// Package preview projects a CV document into a visual tree and serializes it to HTML.
package preview

import "strings"

// Attr is an ordered name/value pair. Attributes and styles are slices rather
// than maps so that a tree always serializes identically.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of the visual tree. A node with an empty Tag is a text node.
type Node struct {
	Tag      string
	ID       string
	Class    string
	Attrs    []Attr
	Style    []Attr
	Text     string
	Children []*Node
}

func el(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: compact(children)}
}

func text(s string) *Node {
	return &Node{Text: s}
}

func (n *Node) with(attrs ...Attr) *Node {
	n.Attrs = append(n.Attrs, attrs...)
	return n
}

func (n *Node) styled(style ...Attr) *Node {
	n.Style = append(n.Style, style...)
	return n
}

func (n *Node) class(c string) *Node {
	n.Class = c
	return n
}

func compact(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// StyleValue returns the value of the named style property.
func (n *Node) StyleValue(name string) (string, bool) {
	for _, s := range n.Style {
		if s.Name == name {
			return s.Value, true
		}
	}
	return "", false
}

// Find returns the first node in depth-first order for which match is true.
func (n *Node) Find(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// Section returns the node tagged with data-section=name, or nil.
func (n *Node) Section(name string) *Node {
	return n.Find(func(x *Node) bool {
		v, ok := x.Attr(AttrSection)
		return ok && v == name
	})
}

// TextContent concatenates every text node below n.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.walkText(&sb)
	return sb.String()
}

func (n *Node) walkText(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.Tag == "" {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.walkText(sb)
	}
}

func styleString(style []Attr) string {
	if len(style) == 0 {
		return ""
	}
	parts := make([]string, 0, len(style))
	for _, s := range style {
		parts = append(parts, s.Name+": "+s.Value)
	}
	return strings.Join(parts, "; ")
}
