package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bilingual/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCX writes a centered heading and a two-column table of
// (text, translation) rows.
func DOCX(w io.Writer, units []doctree.Unit, opts Options) error {
	var rows []doctree.Unit
	for _, u := range units {
		if strings.TrimSpace(u.Text) != "" || strings.TrimSpace(u.Translation) != "" {
			rows = append(rows, u)
		}
	}

	f := docx.New().WithDefaultTheme()
	f.AddParagraph().Justification("center").AddText(opts.title()).Size("32").Bold()

	if len(rows) > 0 {
		tbl := f.AddTable(len(rows), 2, 0, nil)
		for i, u := range rows {
			cells := tbl.TableRows[i].TableCells
			cells[0].AddParagraph().AddText(u.Text)
			cells[1].AddParagraph().AddText(u.Translation)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
