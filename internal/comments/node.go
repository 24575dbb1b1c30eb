package comments

import (
	"strings"
)

// Node is an element or a text node of a documentation comment. Nodes are
// never modified after the store is built.
type Node struct {
	// Name is the element name; it is empty for text nodes.
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

type Attr struct {
	Name  string
	Value string
}

func newText(text string) *Node {
	return &Node{Text: text}
}

func (n *Node) IsText() bool {
	return n.Name == ""
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Child returns the first child element matching the predicate.
func (n *Node) Child(match func(*Node) bool) *Node {
	for _, child := range n.Children {
		if !child.IsText() && match(child) {
			return child
		}
	}
	return nil
}

// InnerText concatenates the text of every descendant.
func (n *Node) InnerText() string {
	if n.IsText() {
		return n.Text
	}
	var builder strings.Builder
	for _, child := range n.Children {
		builder.WriteString(child.InnerText())
	}
	return builder.String()
}

// InnerXML serializes the children of the node as markup.
func (n *Node) InnerXML() string {
	var builder strings.Builder
	for _, child := range n.Children {
		child.writeXML(&builder)
	}
	return builder.String()
}

func (n *Node) writeXML(builder *strings.Builder) {
	if n.IsText() {
		builder.WriteString(textEscaper.Replace(n.Text))
		return
	}

	builder.WriteString("<")
	builder.WriteString(n.Name)
	for _, attr := range n.Attrs {
		builder.WriteString(" ")
		builder.WriteString(attr.Name)
		builder.WriteString(`="`)
		builder.WriteString(attrEscaper.Replace(attr.Value))
		builder.WriteString(`"`)
	}

	if len(n.Children) == 0 {
		builder.WriteString(" />")
		return
	}

	builder.WriteString(">")
	for _, child := range n.Children {
		child.writeXML(builder)
	}
	builder.WriteString("</")
	builder.WriteString(n.Name)
	builder.WriteString(">")
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)
