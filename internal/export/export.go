// Package export renders a unit list as a bilingual document.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bilingual/internal/doctree"
)

// Heading is the title written at the top of every export.
const Heading = "Bilingual Document"

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatDOCX     Format = "docx"
	FormatPO       Format = "po"
	FormatHTML     Format = "html"
)

// Options carries export metadata.
type Options struct {
	Title      string
	SourceLang string
	TargetLang string
}

func (o Options) title() string {
	if strings.TrimSpace(o.Title) == "" {
		return Heading
	}
	return o.Title
}

// ParseFormat maps a format name or file extension onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "docx":
		return FormatDOCX, nil
	case "po":
		return FormatPO, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPO:
		return "text/x-gettext-translation; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename returns the default download name for the format.
func (f Format) Filename() string {
	return "bilingual." + string(f)
}

// Write renders units in format f.
func Write(w io.Writer, f Format, units []doctree.Unit, opts Options) error {
	switch f {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(units, opts))
		return err
	case FormatDOCX:
		return DOCX(w, units, opts)
	case FormatPO:
		return PO(w, units, opts)
	case FormatHTML:
		return HTML(w, units, opts)
	}
	return fmt.Errorf("unknown export format %q", f)
}
