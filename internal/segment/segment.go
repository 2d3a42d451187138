// Package segment turns a document into the ordered list of translatable unit texts.
package segment

import (
	"fmt"
	"strings"

	"github.com/dgallion1/bilingual/internal/doctree"
	"github.com/dgallion1/bilingual/internal/extract"
)

// Mode selects the unit granularity.
type Mode string

const (
	ModeSentence  Mode = "sentence"
	ModeParagraph Mode = "paragraph"
	ModeWhole     Mode = "whole"
)

// ParseMode validates a mode name. Empty selects sentences.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeSentence, nil
	case ModeSentence, ModeParagraph, ModeWhole:
		return m, nil
	default:
		return "", fmt.Errorf("unknown segment mode: %q", s)
	}
}

// Segment produces the unit texts of doc for mode. Unknown modes segment by sentence.
func Segment(doc *doctree.Document, mode Mode) []string {
	switch mode {
	case ModeParagraph:
		return extract.ToParagraphs(doc)
	case ModeWhole:
		if t := strings.TrimSpace(extract.ToPlainText(doc)); t != "" {
			return []string{t}
		}
		return nil
	default:
		return SplitSentences(extract.ToPlainText(doc))
	}
}
