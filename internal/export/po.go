package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dgallion1/bilingual/internal/doctree"
)

// PO writes a gettext catalog with one entry per distinct unit text.
// Translations that are not fresh are flagged fuzzy. The output can be
// loaded back as a catalog translator.
func PO(w io.Writer, units []doctree.Unit, opts Options) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", opts.title())
	writeQuotedField(bw, "msgid", "")
	writeQuotedField(bw, "msgstr", strings.Join([]string{
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: 8bit",
		"Language: " + opts.TargetLang,
		"X-Source-Language: " + opts.SourceLang,
		"POT-Creation-Date: " + time.Now().UTC().Format("2006-01-02 15:04-0700"),
		"X-Generator: bilingual",
		"",
	}, "\n"))

	seen := make(map[string]bool)
	for i, u := range units {
		msgid := strings.TrimSpace(u.Text)
		if msgid == "" || seen[msgid] {
			continue
		}
		seen[msgid] = true

		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "#. unit %d %s\n", i, u.ID)
		var flags []string
		if u.Translation != "" && u.Status != doctree.StatusFresh {
			flags = append(flags, "fuzzy")
		}
		if u.Locked {
			flags = append(flags, "locked")
		}
		if len(flags) > 0 {
			fmt.Fprintf(bw, "#, %s\n", strings.Join(flags, ", "))
		}
		writeQuotedField(bw, "msgid", msgid)
		writeQuotedField(bw, "msgstr", u.Translation)
	}
	return bw.Flush()
}

// writeQuotedField writes a PO field with multiline quoting.
func writeQuotedField(w *bufio.Writer, field, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}

	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.Split(value, "\n")
	for i, part := range parts {
		if i < len(parts)-1 {
			fmt.Fprintf(w, "%s\n", quote(part+"\n"))
		} else if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return `"` + s + `"`
}
