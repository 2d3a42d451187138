// bilingual segments a document into translation units, translates them and
// exports the bilingual result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bilingual",
		Short: "Segment and translate documents into bilingual output",
		Long: `bilingual splits a document into sentences, paragraphs or one whole unit,
translates every unit through a configured provider and writes the source
and translation side by side.

Input formats:  .txt .md .markdown .csv .html .htm .pdf .docx
Output formats: md docx po html

Providers:
  dummy     Echo with a [TARGET] tag (default, offline)
  libre     LibreTranslate JSON API
  baidu     Baidu Fanyi (BAIDU_APP_ID, BAIDU_SECRET)
  backend   A bilingual server's POST /api/translate endpoint
  catalog   Existing gettext PO translations (CATALOG_PATH)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTranslateCmd(),
		newSegmentCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bilingual version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}
