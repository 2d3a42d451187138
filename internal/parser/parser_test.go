package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/bilingual/internal/extract"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{"notes.txt", &TextParser{}},
		{"README.MD", &MarkdownParser{}},
		{"page.htm", &HTMLParser{}},
		{"strings.csv", &CSVParser{}},
		{"report.pdf", &PDFParser{}},
		{"letter.docx", &DOCXParser{}},
	}
	for _, tt := range tests {
		got, err := ForFile(tt.filename)
		if err != nil {
			t.Fatalf("ForFile(%q): unexpected error: %v", tt.filename, err)
		}
		if reflect.TypeOf(got) != reflect.TypeOf(tt.want) {
			t.Errorf("ForFile(%q): expected %T, got %T", tt.filename, tt.want, got)
		}
	}

	if _, err := ForFile("image.png"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   Parser
	}{
		{"html", &HTMLParser{}},
		{"text/html; charset=utf-8", &HTMLParser{}},
		{"Markdown", &MarkdownParser{}},
		{"", &TextParser{}},
		{"text/plain", &TextParser{}},
	}
	for _, tt := range tests {
		got, err := ForFormat(tt.format)
		if err != nil {
			t.Fatalf("ForFormat(%q): unexpected error: %v", tt.format, err)
		}
		if reflect.TypeOf(got) != reflect.TypeOf(tt.want) {
			t.Errorf("ForFormat(%q): expected %T, got %T", tt.format, tt.want, got)
		}
	}
	if _, err := ForFormat("rtf"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("a.DOCX") {
		t.Error("expected .DOCX to be supported")
	}
	if IsSupportedExtension("a.exe") {
		t.Error("expected .exe to be unsupported")
	}
}

func TestTextParser(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\n\n\nThird paragraph."
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	want := []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	if got := extract.ToParagraphs(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	doc, err := (&TextParser{}).Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.IsEmpty() {
		t.Error("expected empty document")
	}
}

func TestCSVParser(t *testing.T) {
	input := "key,text\ngreeting,\"Hello, world.\"\nfarewell,Goodbye\n,\n"
	doc, err := (&CSVParser{}).Parse(strings.NewReader(input), "strings.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"key", "text", "greeting", "Hello, world.", "farewell", "Goodbye"}
	if got := extract.ToParagraphs(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}
