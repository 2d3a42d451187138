package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/bilingual/internal/doctree"
	"github.com/dgallion1/bilingual/internal/pipeline"
	"github.com/dgallion1/bilingual/internal/segment"
	"github.com/spf13/cobra"
)

func newSegmentCmd() *cobra.Command {
	var (
		mode     string
		asJSON   bool
		fallback bool
	)
	cmd := &cobra.Command{
		Use:   "segment FILE",
		Short: "Print the translation units of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := segment.ParseMode(mode)
			if err != nil {
				return err
			}
			doc, err := loadDocument(args[0], fallback)
			if err != nil {
				return err
			}
			units := pipeline.Reconcile(nil, segment.Segment(doc, m))
			return printUnits(cmd.OutOrStdout(), units, asJSON)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(segment.ModeSentence), "Unit granularity: sentence, paragraph or whole")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print units as JSON")
	cmd.Flags().BoolVar(&fallback, "pdftotext", true, "Fall back to pdftotext for PDFs without extractable text")
	return cmd
}

func printUnits(w io.Writer, units []doctree.Unit, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(units)
	}
	for i, u := range units {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%q\n", i, u.ID, u.Text); err != nil {
			return err
		}
	}
	return nil
}
