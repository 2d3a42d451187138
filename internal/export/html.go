package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/dgallion1/bilingual/internal/doctree"
	"github.com/yuin/goldmark"
)

// HTML renders the bilingual Markdown as a standalone HTML page. Raw HTML in
// unit text is not passed through.
func HTML(w io.Writer, units []doctree.Unit, opts Options) error {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(units, opts)), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	lang := opts.TargetLang
	if lang == "" || lang == "auto" {
		lang = "en"
	}
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>blockquote{color:#2f6f4f;border-left:3px solid #9cc;margin:0 0 1em;padding-left:.75em}</style>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(lang), html.EscapeString(opts.title()), body.String())
	return err
}
