package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/bilingual/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML documents and editor HTML fragments.
type HTMLParser struct{}

var spaceRun = regexp.MustCompile(`\s+`)

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := doctree.New(titleFromFilename(filename))
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	body := findBody(root)
	if body == nil {
		body = root
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if n := convertHTML(c, false); n != nil {
			doc.Append(n)
		}
	}
	return doc, nil
}

// convertHTML maps an HTML node onto a document node, dropping non-content
// elements and formatting whitespace.
func convertHTML(n *html.Node, pre bool) *doctree.Node {
	switch n.Type {
	case html.TextNode:
		text := n.Data
		if !pre {
			if strings.TrimSpace(text) == "" && strings.Contains(text, "\n") {
				return nil
			}
			text = spaceRun.ReplaceAllString(text, " ")
		}
		if text == "" {
			return nil
		}
		return doctree.Text(text)
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head", "title", "template", "noscript", "iframe", "svg":
			return nil
		case "br":
			return doctree.Break()
		}
		el := doctree.Element(n.Data)
		inPre := pre || n.Data == "pre"
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convertHTML(c, inPre); child != nil {
				el.Append(child)
			}
		}
		return el
	}
	return nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
