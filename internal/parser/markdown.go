package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/dgallion1/bilingual/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown using goldmark's AST. A leading front
// matter block is not translated; its title, if any, names the document.
type MarkdownParser struct{}

type markdownMeta struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var meta markdownMeta
	src, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		// An unterminated or malformed block is ordinary content.
		src, meta = data, markdownMeta{}
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = titleFromFilename(filename)
	}
	doc := doctree.New(title)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		doc.Append(convertBlock(n, src)...)
	}
	return doc, nil
}

// convertBlock maps a goldmark block onto zero or more document nodes.
func convertBlock(n ast.Node, src []byte) []*doctree.Node {
	switch node := n.(type) {
	case *ast.Heading:
		h := doctree.Element(fmt.Sprintf("h%d", node.Level))
		appendInlines(h, node, src)
		return []*doctree.Node{h}
	case *ast.Paragraph:
		p := doctree.Element("p")
		appendInlines(p, node, src)
		return []*doctree.Node{p}
	case *ast.TextBlock:
		// tight list items carry their text without a paragraph
		p := doctree.Element("span")
		appendInlines(p, node, src)
		return p.Children
	case *ast.List:
		tag := "ul"
		if node.IsOrdered() {
			tag = "ol"
		}
		return []*doctree.Node{convertContainer(tag, node, src)}
	case *ast.ListItem:
		return []*doctree.Node{convertContainer("li", node, src)}
	case *ast.Blockquote:
		return []*doctree.Node{convertContainer("blockquote", node, src)}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var buf strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		code := strings.TrimRight(buf.String(), "\n")
		if code == "" {
			return nil
		}
		return []*doctree.Node{doctree.Element("pre", doctree.Text(code))}
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	default:
		var out []*doctree.Node
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			out = append(out, convertBlock(c, src)...)
		}
		return out
	}
}

func convertContainer(tag string, n ast.Node, src []byte) *doctree.Node {
	el := doctree.Element(tag)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		el.Append(convertBlock(c, src)...)
	}
	return el
}

// appendInlines flattens inline content into text runs. Soft line breaks
// become spaces, hard line breaks become breaks.
func appendInlines(dst *doctree.Node, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch in := c.(type) {
		case *ast.Text:
			dst.Append(doctree.Text(string(in.Value(src))))
			switch {
			case in.HardLineBreak():
				dst.Append(doctree.Break())
			case in.SoftLineBreak():
				dst.Append(doctree.Text(" "))
			}
		case *ast.String:
			dst.Append(doctree.Text(string(in.Value)))
		case *ast.AutoLink:
			dst.Append(doctree.Text(string(in.Label(src))))
		case *ast.Image, *ast.RawHTML:
			continue
		default:
			appendInlines(dst, c, src)
		}
	}
}
