package parser

import (
	"io"

	"github.com/dgallion1/bilingual/internal/doctree"
)

// TextParser handles plain text. Blank lines separate paragraphs; single
// newlines become hard breaks inside a paragraph.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := doctree.FromPlainText(string(data))
	doc.Title = titleFromFilename(filename)
	return doc, nil
}
