// Package extract converts a rich-text document tree into plain text or paragraphs.
package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/bilingual/internal/doctree"
)

var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	blankLines     = regexp.MustCompile(`\n{2,}`)
)

// ToPlainText flattens the document depth-first. Hard breaks become "\n", each
// closed block appends "\n", and runs of three or more newlines collapse to two.
func ToPlainText(doc *doctree.Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	var buf strings.Builder
	for _, c := range doc.Root.Children {
		writePlain(&buf, c)
	}
	return excessNewlines.ReplaceAllString(buf.String(), "\n\n")
}

func writePlain(buf *strings.Builder, n *doctree.Node) {
	switch {
	case n.Type == doctree.TextNode:
		buf.WriteString(n.Text)
		return
	case n.IsBreak():
		buf.WriteByte('\n')
		return
	}
	for _, c := range n.Children {
		writePlain(buf, c)
	}
	if n.IsBlock() {
		buf.WriteByte('\n')
	}
}

// ToParagraphs returns the trimmed text of every leaf block in document order.
// Without leaf blocks it falls back to the root's top-level elements, and then
// to splitting the plain text on blank lines (or single newlines).
func ToParagraphs(doc *doctree.Document) []string {
	if doc == nil || doc.Root == nil {
		return nil
	}

	var leaves []*doctree.Node
	collectLeafBlocks(doc.Root, &leaves)
	if paras := textsOf(leaves); len(paras) > 0 {
		return paras
	}

	var top []*doctree.Node
	for _, c := range doc.Root.Children {
		if c.Type == doctree.ElementNode {
			top = append(top, c)
		}
	}
	if paras := textsOf(top); len(paras) > 0 {
		return paras
	}

	return splitPlain(ToPlainText(doc))
}

func collectLeafBlocks(n *doctree.Node, out *[]*doctree.Node) {
	for _, c := range n.Children {
		if c.Type != doctree.ElementNode {
			continue
		}
		if c.IsBlock() && !c.HasBlockDescendant() {
			*out = append(*out, c)
			continue
		}
		collectLeafBlocks(c, out)
	}
}

func textsOf(nodes []*doctree.Node) []string {
	var out []string
	for _, n := range nodes {
		if t := toText(n); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// toText concatenates text under n with hard breaks as "\n", trimmed.
func toText(n *doctree.Node) string {
	var buf strings.Builder
	var walk func(*doctree.Node)
	walk = func(n *doctree.Node) {
		for _, c := range n.Children {
			switch {
			case c.Type == doctree.TextNode:
				buf.WriteString(c.Text)
			case c.IsBreak():
				buf.WriteByte('\n')
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

func splitPlain(text string) []string {
	parts := blankLines.Split(text, -1)
	if len(nonEmpty(parts)) <= 1 && strings.Contains(text, "\n") {
		parts = strings.Split(text, "\n")
	}
	return nonEmpty(parts)
}

func nonEmpty(parts []string) []string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
