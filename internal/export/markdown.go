package export

import (
	"strings"

	"github.com/dgallion1/bilingual/internal/doctree"
)

// Markdown renders each unit's text followed by its translation as a
// blockquote. Units with blank text are skipped.
func Markdown(units []doctree.Unit, opts Options) string {
	parts := []string{"# " + opts.title(), ""}
	for _, u := range units {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		if t := strings.TrimSpace(u.Translation); t != "" {
			parts = append(parts, "> "+strings.ReplaceAll(t, "\n", "\n> "))
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}
