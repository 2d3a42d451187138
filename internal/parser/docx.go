package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bilingual/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading styles map to h1-h6, other
// paragraphs to p, and table cells are read row by row.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	f, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := doctree.New(titleFromFilename(filename))
	for _, item := range f.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if n := docxBlock(it); n != nil {
				doc.Append(n)
			}
		case *docx.Table:
			doc.Append(docxTable(it)...)
		}
	}
	return doc, nil
}

func docxBlock(para *docx.Paragraph) *doctree.Node {
	text := docxParagraphText(para)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if level := docxHeadingLevel(para); level > 0 {
		h := doctree.Paragraph(text)
		h.Tag = fmt.Sprintf("h%d", level)
		return h
	}
	return doctree.Paragraph(text)
}

func docxTable(t *docx.Table) []*doctree.Node {
	var out []*doctree.Node
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			for _, para := range cell.Paragraphs {
				if n := docxBlock(para); n != nil {
					out = append(out, n)
				}
			}
			for _, nested := range cell.Tables {
				out = append(out, docxTable(nested)...)
			}
		}
	}
	return out
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	writeRun := func(run *docx.Run) {
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Tab:
				buf.WriteByte('\t')
			case *docx.BarterRabbet:
				buf.WriteByte('\n')
			}
		}
	}
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRun(c)
		case *docx.Hyperlink:
			writeRun(&c.Run)
		}
	}
	return strings.Trim(buf.String(), " \n")
}
