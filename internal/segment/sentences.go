package segment

import (
	"strings"
	"unicode"
)

// closers are absorbed into a sentence after its terminator.
var closers = map[rune]bool{
	'"': true, '\'': true, '”': true, '’': true, '»': true,
	')': true, '）': true, ']': true, '］': true, '>': true,
	'」': true, '』': true, '】': true, '》': true, '〉': true, '〕': true,
}

// SplitSentences splits text into trimmed sentences with a single left-to-right scan.
//
// A newline always ends the current sentence. '.' ends it unless it sits between
// two digits or is part of a run of dots. A run of '!' and '?' ends on its last
// character. '。', '！' and '？' always end a sentence. Closing quotes and brackets
// that directly follow a terminator stay with that sentence.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var (
		out []string
		buf []rune
	)
	flush := func() {
		if s := strings.TrimSpace(string(buf)); s != "" {
			out = append(out, s)
		}
		buf = buf[:0]
	}
	at := func(i int) rune {
		if i < 0 || i >= len(runes) {
			return 0
		}
		return runes[i]
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			flush()
			continue
		}
		buf = append(buf, r)

		if !endsSentence(r, at(i-1), at(i+1)) {
			continue
		}
		for i+1 < len(runes) && closers[runes[i+1]] {
			i++
			buf = append(buf, runes[i])
		}
		flush()
	}
	flush()
	return out
}

func endsSentence(r, prev, next rune) bool {
	switch r {
	case '.':
		if next == '.' || prev == '.' {
			return false
		}
		return !(unicode.IsDigit(prev) && unicode.IsDigit(next))
	case '!', '?':
		return next != '!' && next != '?'
	case '。', '！', '？':
		return true
	}
	return false
}
