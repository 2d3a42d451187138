// Package chunker splits long unit texts into pieces that fit one upstream
// translation request, keeping paragraph and sentence boundaries.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/bilingual/internal/segment"
)

const (
	paragraphSep = "\n\n"
	lineSep      = "\n"
	sentenceSep  = " "
)

// Piece is one request-sized part of a text. Sep joins it to the next piece.
type Piece struct {
	Text string
	Sep  string
}

// Split breaks text into pieces of at most maxChars runes. Paragraphs are
// packed first; an oversized paragraph is split at hard line breaks, then by
// sentences, and an oversized sentence at word boundaries. maxChars <= 0 disables splitting.
func Split(text string, maxChars int) []Piece {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return []Piece{{Text: text}}
	}

	var pieces []Piece
	paragraphs := splitByParagraphs(text)
	for i, para := range paragraphs {
		var parts []Piece
		if utf8.RuneCountInString(para) > maxChars {
			parts = splitLines(para, maxChars)
		} else {
			parts = []Piece{{Text: para}}
		}
		if i < len(paragraphs)-1 {
			parts[len(parts)-1].Sep = paragraphSep
		}
		pieces = append(pieces, parts...)
	}
	return merge(pieces, maxChars)
}

// Join reassembles translated pieces using the separators of the original split.
func Join(pieces []Piece, texts []string) string {
	var b strings.Builder
	for i, t := range texts {
		b.WriteString(t)
		if i < len(pieces) && i < len(texts)-1 {
			b.WriteString(pieces[i].Sep)
		}
	}
	return b.String()
}

// splitByParagraphs splits on blank lines.
func splitByParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, paragraphSep)
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitLines splits an oversized paragraph at its hard line breaks, then each
// line by sentences. Line breaks survive as piece separators.
func splitLines(para string, maxChars int) []Piece {
	var out []Piece
	lines := strings.Split(para, lineSep)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := pack(splitBySentences(line, maxChars), sentenceSep, maxChars)
		if i < len(lines)-1 {
			parts[len(parts)-1].Sep = lineSep
		}
		out = append(out, parts...)
	}
	if len(out) > 0 {
		out[len(out)-1].Sep = ""
	}
	return out
}

// splitBySentences returns sentences, with any sentence longer than maxChars
// cut at word boundaries.
func splitBySentences(text string, maxChars int) []string {
	var out []string
	for _, sent := range segment.SplitSentences(text) {
		if utf8.RuneCountInString(sent) > maxChars {
			out = append(out, splitWords(sent, maxChars)...)
			continue
		}
		out = append(out, sent)
	}
	return out
}

// splitWords cuts text at whitespace so each part has at most maxChars runes.
// A single word longer than maxChars is cut mid-word.
func splitWords(text string, maxChars int) []string {
	var (
		out     []string
		current strings.Builder
		n       int
	)
	flush := func() {
		if n > 0 {
			out = append(out, current.String())
			current.Reset()
			n = 0
		}
	}
	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > maxChars {
			flush()
			r := []rune(word)
			out = append(out, string(r[:maxChars]))
			word = string(r[maxChars:])
		}
		wn := utf8.RuneCountInString(word)
		if n > 0 && n+1+wn > maxChars {
			flush()
		}
		if n > 0 {
			current.WriteString(" ")
			n++
		}
		current.WriteString(word)
		n += wn
	}
	flush()
	return out
}

// pack greedily joins parts with sep while staying within maxChars.
func pack(parts []string, sep string, maxChars int) []Piece {
	var (
		out     []Piece
		current strings.Builder
		n       int
	)
	for _, p := range parts {
		pn := utf8.RuneCountInString(p)
		if n > 0 && n+utf8.RuneCountInString(sep)+pn > maxChars {
			out = append(out, Piece{Text: current.String(), Sep: sep})
			current.Reset()
			n = 0
		}
		if n > 0 {
			current.WriteString(sep)
			n += utf8.RuneCountInString(sep)
		}
		current.WriteString(p)
		n += pn
	}
	if n > 0 {
		out = append(out, Piece{Text: current.String()})
	}
	return out
}

// merge joins consecutive pieces with their separator while the result
// still fits.
func merge(pieces []Piece, maxChars int) []Piece {
	var out []Piece
	for _, p := range pieces {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.Sep != "" &&
				utf8.RuneCountInString(last.Text)+utf8.RuneCountInString(last.Sep)+utf8.RuneCountInString(p.Text) <= maxChars {
				last.Text += last.Sep + p.Text
				last.Sep = p.Sep
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
