package doctree

import (
	"regexp"
	"strings"
)

// NodeType distinguishes element nodes from text nodes.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Document is the root of an editable rich-text document.
type Document struct {
	Title string // Document title (from metadata or filename)
	Root  *Node  // Synthetic root element; its children are the top-level blocks
}

// Node is a block or inline node in the document tree.
type Node struct {
	Type     NodeType
	Tag      string // Lowercase element name ("p", "li", "br", "strong"); empty for text
	Text     string // Literal content of a text node
	Children []*Node
}

// blockTags are the block-level elements that terminate a line of plain text.
var blockTags = map[string]bool{
	"p":          true,
	"div":        true,
	"li":         true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"blockquote": true,
	"pre":        true,
}

// New returns an empty document.
func New(title string) *Document {
	return &Document{Title: title, Root: Element("root")}
}

// Element builds an element node.
func Element(tag string, children ...*Node) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag), Children: children}
}

// Text builds a text node.
func Text(s string) *Node {
	return &Node{Type: TextNode, Text: s}
}

// Break builds a hard line break.
func Break() *Node {
	return Element("br")
}

// Paragraph builds a <p> holding a single text run, with "\n" mapped to hard breaks.
func Paragraph(text string) *Node {
	p := Element("p")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.Append(Break())
		}
		if line != "" {
			p.Append(Text(line))
		}
	}
	return p
}

// Append adds children to n and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// IsBlock reports whether n is a recognized block-level element.
func (n *Node) IsBlock() bool {
	return n != nil && n.Type == ElementNode && blockTags[n.Tag]
}

// IsBreak reports whether n is a hard line break.
func (n *Node) IsBreak() bool {
	return n != nil && n.Type == ElementNode && n.Tag == "br"
}

// HasBlockDescendant reports whether any node below n is a block element.
func (n *Node) HasBlockDescendant() bool {
	for _, c := range n.Children {
		if c.IsBlock() || c.HasBlockDescendant() {
			return true
		}
	}
	return false
}

// Append adds top-level blocks to the document.
func (d *Document) Append(blocks ...*Node) {
	if d.Root == nil {
		d.Root = Element("root")
	}
	d.Root.Append(blocks...)
}

// IsEmpty reports whether the document has no top-level content.
func (d *Document) IsEmpty() bool {
	return d == nil || d.Root == nil || len(d.Root.Children) == 0
}

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// FromPlainText builds a document from plain text: blank lines separate
// paragraphs and single newlines become hard breaks.
func FromPlainText(text string) *Document {
	doc := New("")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, part := range blankLine.Split(text, -1) {
		part = strings.Trim(part, "\n")
		if strings.TrimSpace(part) == "" {
			continue
		}
		doc.Append(Paragraph(part))
	}
	return doc
}
