package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dgallion1/bilingual/internal/config"
	"github.com/dgallion1/bilingual/internal/doctree"
	"github.com/dgallion1/bilingual/internal/export"
	"github.com/dgallion1/bilingual/internal/parser"
	"github.com/dgallion1/bilingual/internal/pipeline"
	"github.com/dgallion1/bilingual/internal/segment"
	"github.com/dgallion1/bilingual/internal/translate"
	"github.com/spf13/cobra"
)

type translateFlags struct {
	configPath string
	mode       string
	provider   string
	from       string
	to         string
	format     string
	output     string
	title      string
}

func newTranslateCmd() *cobra.Command {
	var f translateFlags
	cmd := &cobra.Command{
		Use:   "translate FILE",
		Short: "Translate a document and export it side by side",
		Long: `Import FILE, segment it, translate every unit and write the bilingual
export. Configuration comes from --config (YAML), then the environment, then
flags. Units that fail to translate are reported and exported without a
translation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runTranslate(ctx, cfg, args[0], f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "Unit granularity: sentence, paragraph or whole")
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "Translation provider")
	cmd.Flags().StringVar(&f.from, "from", "", "Source language (auto to detect)")
	cmd.Flags().StringVar(&f.to, "to", "", "Target language")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: md, docx, po or html (default from -o extension, else md)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&f.title, "title", "", "Export title")
	return cmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, f translateFlags) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.SegmentMode = f.mode
	}
	if flags.Changed("provider") {
		cfg.Provider = f.provider
	}
	if flags.Changed("from") {
		cfg.SourceLang = f.from
	}
	if flags.Changed("to") {
		cfg.TargetLang = f.to
	}
}

func runTranslate(ctx context.Context, cfg config.Config, path string, f translateFlags, out, errOut io.Writer) error {
	format, err := outputFormat(f.format, f.output)
	if err != nil {
		return err
	}

	doc, err := loadDocument(path, cfg.PDFFallbackPdftotext)
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	opts := cfg.TranslateOptions()
	provider, err := translate.New(opts)
	if err != nil {
		return fmt.Errorf("init translator: %w", err)
	}
	if c, ok := provider.(interface{ Close() }); ok {
		defer c.Close()
	}
	tr := translate.Wrap(provider, opts, log, nil)

	if doc.IsEmpty() {
		return fmt.Errorf("%s: empty document", path)
	}
	sessOpts := cfg.SessionOptions()
	units := pipeline.Reconcile(nil, segment.Segment(doc, sessOpts.Mode))
	if len(units) == 0 {
		return fmt.Errorf("%s: no text to translate", path)
	}

	res := pipeline.Synchronize(ctx, units, func(ctx context.Context, u doctree.Unit) (string, error) {
		return tr.Translate(ctx, u.Text, cfg.SourceLang, cfg.TargetLang)
	}, pipeline.SyncOptions{
		Concurrency: sessOpts.Concurrency,
		Observer:    &progressPrinter{w: errOut},
		Log:         log,
	})

	for i, u := range res.Units {
		if u.Status == doctree.StatusError {
			fmt.Fprintf(errOut, "unit %d failed: %s\n", i, u.ErrorMsg)
		}
	}
	fmt.Fprintf(errOut, "translated %d/%d units (%d failed) in %s\n",
		res.Succeeded, res.Total, res.Failed, res.Duration.Round(time.Millisecond))

	title := f.title
	if title == "" {
		title = doc.Title
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, res.Units, export.Options{
		Title:      title,
		SourceLang: cfg.SourceLang,
		TargetLang: cfg.TargetLang,
	}); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if f.output == "" {
		_, err := out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(f.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(errOut, "wrote %s\n", f.output)
	return nil
}

// outputFormat resolves --format, falling back to the output file extension.
func outputFormat(format, output string) (export.Format, error) {
	if format != "" {
		return export.ParseFormat(format)
	}
	if ext := filepath.Ext(output); ext != "" {
		if f, err := export.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return export.FormatMarkdown, nil
}

func loadDocument(path string, pdfFallback bool) (*doctree.Document, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = pdfFallback
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// progressPrinter reports batch progress on stderr.
type progressPrinter struct {
	w    io.Writer
	last int
}

func (p *progressPrinter) BatchStarted(indices []int, units []doctree.Unit) {
	fmt.Fprintf(p.w, "translating %d units\n", len(indices))
}

func (p *progressPrinter) UnitDone(index int, before, after doctree.Unit, pr pipeline.Progress) {
	pct := int(pr.Fraction() * 100)
	if pct/10 > p.last/10 || pr.Completed == pr.Total {
		fmt.Fprintf(p.w, "  %3d%% (%d/%d)\n", pct, pr.Completed, pr.Total)
		p.last = pct
	}
}

func (p *progressPrinter) BatchFinished(res pipeline.Result) {}
