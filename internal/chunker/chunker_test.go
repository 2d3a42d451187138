package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func texts(pieces []Piece) []string {
	out := make([]string, len(pieces))
	for i, p := range pieces {
		out[i] = p.Text
	}
	return out
}

func TestSplit_ShortTextIsOnePiece(t *testing.T) {
	pieces := Split("Short text.", 100)
	if len(pieces) != 1 || pieces[0].Text != "Short text." {
		t.Fatalf("expected one unchanged piece, got %+v", pieces)
	}
}

func TestSplit_Disabled(t *testing.T) {
	long := strings.Repeat("word ", 1000)
	if pieces := Split(long, 0); len(pieces) != 1 {
		t.Fatalf("expected splitting disabled, got %d pieces", len(pieces))
	}
}

func TestSplit_PacksParagraphs(t *testing.T) {
	text := "Para one.\n\nPara two.\n\nPara three is longer."
	pieces := Split(text, 22)

	want := []string{"Para one.\n\nPara two.", "Para three is longer."}
	got := texts(pieces)
	if len(got) != len(want) {
		t.Fatalf("expected %d pieces, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("piece %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if pieces[0].Sep != "\n\n" {
		t.Errorf("expected paragraph separator, got %q", pieces[0].Sep)
	}
}

func TestSplit_LargeParagraphBySentences(t *testing.T) {
	para := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	pieces := Split(para, 100)

	if len(pieces) < 2 {
		t.Fatalf("expected multiple pieces, got %d", len(pieces))
	}
	for i, p := range pieces {
		if n := utf8.RuneCountInString(p.Text); n > 100 {
			t.Errorf("piece %d has %d runes, exceeds 100", i, n)
		}
		if !strings.HasSuffix(p.Text, "dog.") {
			t.Errorf("piece %d should end on a sentence boundary: %q", i, p.Text)
		}
		if i < len(pieces)-1 && p.Sep != " " {
			t.Errorf("piece %d: expected sentence separator, got %q", i, p.Sep)
		}
	}
}

func TestSplit_OversizedSentenceByWords(t *testing.T) {
	sentence := strings.Repeat("alpha ", 30) + "omega"
	pieces := Split(sentence, 40)
	for i, p := range pieces {
		if n := utf8.RuneCountInString(p.Text); n > 40 {
			t.Errorf("piece %d has %d runes, exceeds 40", i, n)
		}
	}
	if !strings.HasSuffix(pieces[len(pieces)-1].Text, "omega") {
		t.Errorf("expected last piece to end with omega, got %q", pieces[len(pieces)-1].Text)
	}
}

func TestSplit_LongWord(t *testing.T) {
	pieces := Split(strings.Repeat("x", 25), 10)
	got := texts(pieces)
	if len(got) != 3 || got[0] != strings.Repeat("x", 10) || got[2] != "xxxxx" {
		t.Fatalf("unexpected pieces: %q", got)
	}
}

func TestJoin_RoundTrip(t *testing.T) {
	text := "First paragraph here.\n\n" + strings.Repeat("Sentence goes on. ", 10) + "End."
	pieces := Split(text, 60)
	joined := Join(pieces, texts(pieces))

	if strings.Join(strings.Fields(joined), " ") != strings.Join(strings.Fields(text), " ") {
		t.Errorf("expected round trip to preserve words\nwant %q\ngot  %q", text, joined)
	}
	if !strings.HasPrefix(joined, "First paragraph here.\n\n") {
		t.Errorf("expected paragraph break preserved, got %q", joined)
	}
}

func TestSplit_KeepsLineBreaks(t *testing.T) {
	text := "Roses are red.\nViolets are blue.\nSugar is sweet."
	pieces := Split(text, 35)

	want := []string{"Roses are red.\nViolets are blue.", "Sugar is sweet."}
	got := texts(pieces)
	if len(got) != len(want) {
		t.Fatalf("expected %d pieces, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("piece %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if pieces[0].Sep != "\n" {
		t.Errorf("expected line separator, got %q", pieces[0].Sep)
	}
	if joined := Join(pieces, got); joined != text {
		t.Errorf("expected round trip %q, got %q", text, joined)
	}
}
