// Command pdfdeck builds presentation decks from deck files.
//
// Usage:
//
//	pdfdeck init    [-format yaml|json] [-o deck.yaml]
//	pdfdeck render  [-o out.pdf | -outdir dir] [-alt] [-code qr|pdf417] [-watermark TEXT]
//	                [-appendix a.pdf,b.pdf] [-font file.ttf] deck.yaml...
//	pdfdeck draft   -topic TOPIC [-slides 3] [-tone professional] [-industry technology]
//	                [-base deck.yaml] [-o drafted.yaml] [-pdf drafted.pdf]
//	pdfdeck preview [-page 1] [-scale 1] [-o page.png] deck.yaml
//
// Settings are read from the environment and an optional .env file:
// GROQ_API_KEY (required by draft), PDFDECK_LLM_BASE_URL, PDFDECK_LLM_MODEL,
// PDFDECK_LLM_TIMEOUT_SECONDS, PDFDECK_LOG_MODE, PDFDECK_HIGHLIGHT_WORDS and
// PDFDECK_CONCURRENCY.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/bytespark/pdfdeck"
	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/form"
	"github.com/bytespark/pdfdeck/genai"
	"github.com/bytespark/pdfdeck/internal/config"
	"github.com/bytespark/pdfdeck/internal/logger"
	"github.com/bytespark/pdfdeck/layout"
)

var errUsage = errors.New("usage: pdfdeck <init|render|draft|preview> [flags] [deck files]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pdfdeck: %v\n", err)
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type app struct {
	cfg    config.Config
	log    *logger.Logger
	stdout io.Writer
	gen    genai.Generator // nil means build one from cfg
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	a := &app{cfg: cfg, log: log, stdout: stdout}
	return a.dispatch(ctx, args)
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "init":
		return a.initCmd(args[1:])
	case "render":
		return a.renderCmd(ctx, args[1:])
	case "draft":
		return a.draftCmd(ctx, args[1:])
	case "preview":
		return a.previewCmd(args[1:])
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (a *app) initCmd(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	format := fs.String("format", "yaml", "stdout format: yaml or json (files use their extension)")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := deck.Format(*format)
	if f != deck.FormatJSON && f != deck.FormatYAML {
		return fmt.Errorf("unknown format %q", *format)
	}
	if *out == "" {
		return deck.Encode(a.stdout, deck.Default(), f)
	}
	if err := deck.Save(*out, deck.Default()); err != nil {
		return err
	}
	a.log.Info("deck file written", "path", *out)
	return nil
}

// renderFlags are shared by render, draft and preview.
type renderFlags struct {
	alt       bool
	code      string
	highlight string
	font      string
}

func (rf *renderFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&rf.alt, "alt", false, "alternate slide backgrounds")
	fs.StringVar(&rf.code, "code", "", "contact code on the closing page: qr or pdf417")
	fs.StringVar(&rf.highlight, "highlight", "", "comma-separated cover title words to highlight (default from PDFDECK_HIGHLIGHT_WORDS)")
	fs.StringVar(&rf.font, "font", "", "TrueType font used for all text")
}

func (rf *renderFlags) options(cfg config.Config) ([]pdfdeck.Option, error) {
	words := cfg.HighlightWords
	if rf.highlight != "" {
		words = splitList(rf.highlight)
	}
	opts := []pdfdeck.Option{pdfdeck.WithHighlightWords(words...)}
	if rf.alt {
		opts = append(opts, pdfdeck.WithAlternateBackground())
	}
	switch code := layout.CodeKind(rf.code); code {
	case "":
	case layout.CodeQR, layout.CodePDF417:
		opts = append(opts, pdfdeck.WithContactCode(code))
	default:
		return nil, fmt.Errorf("unknown contact code %q", rf.code)
	}
	if rf.font != "" {
		family := strings.TrimSuffix(filepath.Base(rf.font), filepath.Ext(rf.font))
		opts = append(opts, pdfdeck.WithFontFile(family, "", rf.font))
	}
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (a *app) renderCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var rf renderFlags
	rf.register(fs)
	out := fs.String("o", "", "output file (only with a single deck)")
	outDir := fs.String("outdir", "", "output directory (default: next to each deck file)")
	watermark := fs.String("watermark", "", "text stamped across every page")
	appendix := fs.String("appendix", "", "comma-separated PDFs appended after each deck")
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return fmt.Errorf("%w: render needs at least one deck file", errUsage)
	}
	if *out != "" && len(inputs) > 1 {
		return fmt.Errorf("%w: -o needs exactly one deck file; use -outdir", errUsage)
	}

	opts, err := rf.options(a.cfg)
	if err != nil {
		return err
	}
	if *watermark != "" {
		opts = append(opts, pdfdeck.WithWatermark(*watermark))
	}
	if paths := splitList(*appendix); len(paths) > 0 {
		opts = append(opts, pdfdeck.WithAppendix(paths...))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for _, in := range inputs {
		in := in // per-iteration copy; go directive is 1.21
		target := *out
		if target == "" {
			target = outputPath(in, *outDir, ".pdf")
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := deck.Load(in)
			if err != nil {
				return err
			}
			if err := pdfdeck.ExportFile(target, doc, opts...); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			a.log.Info("deck rendered", "input", in, "output", target, "pages", len(doc.Slides)+2)
			return nil
		})
	}
	return g.Wait()
}

// outputPath replaces the extension of in with ext, placing the result in
// dir when dir is set.
func outputPath(in, dir, ext string) string {
	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ext
	if dir == "" {
		dir = filepath.Dir(in)
	}
	return filepath.Join(dir, name)
}

func (a *app) generator() (genai.Generator, error) {
	if a.gen != nil {
		return a.gen, nil
	}
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return genai.New(genai.Config{
		APIKey:  a.cfg.APIKey,
		BaseURL: a.cfg.BaseURL,
		Model:   a.cfg.Model,
		Timeout: a.cfg.Timeout,
	}, a.log), nil
}

func (a *app) draftCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("draft", flag.ContinueOnError)
	var rf renderFlags
	rf.register(fs)
	topic := fs.String("topic", "", "what the presentation is about (required)")
	slides := fs.Int("slides", genai.DefaultSlideCount, "number of content slides")
	tone := fs.String("tone", genai.DefaultTone, "professional, casual, technical or marketing")
	industry := fs.String("industry", genai.DefaultIndustry, "industry context")
	base := fs.String("base", "", "deck file providing branding, website and images")
	out := fs.String("o", "", "write the drafted deck here (default stdout, YAML)")
	pdf := fs.String("pdf", "", "also render the drafted deck to this PDF")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*topic) == "" {
		return fmt.Errorf("%w: draft needs -topic", errUsage)
	}

	gen, err := a.generator()
	if err != nil {
		return err
	}
	doc := deck.Default()
	if *base != "" {
		if doc, err = deck.Load(*base); err != nil {
			return err
		}
	}

	session := form.New(doc, form.WithGenerator(gen), form.WithLogger(a.log))
	defer session.Close()
	req := genai.Request{Topic: *topic, SlideCount: *slides, Tone: *tone, Industry: *industry}
	if err := <-session.Generate(ctx, req); err != nil {
		return err
	}
	doc = session.Snapshot()

	if *out == "" {
		if err := deck.Encode(a.stdout, doc, deck.FormatYAML); err != nil {
			return err
		}
	} else if err := deck.Save(*out, doc); err != nil {
		return err
	}

	if *pdf != "" {
		opts, err := rf.options(a.cfg)
		if err != nil {
			return err
		}
		if err := pdfdeck.ExportFile(*pdf, doc, opts...); err != nil {
			return err
		}
		a.log.Info("draft rendered", "output", *pdf)
	}
	return nil
}

func (a *app) previewCmd(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	var rf renderFlags
	rf.register(fs)
	page := fs.Int("page", 1, "page number, 1 is the cover")
	scale := fs.Float64("scale", 1, "pixels per point")
	out := fs.String("o", "", "output PNG (default: <deck>-<page>.png next to the deck)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: preview needs exactly one deck file", errUsage)
	}
	in := fs.Arg(0)

	doc, err := deck.Load(in)
	if err != nil {
		return err
	}
	opts, err := rf.options(a.cfg)
	if err != nil {
		return err
	}
	opts = append(opts, pdfdeck.WithPreviewScale(*scale))

	target := *out
	if target == "" {
		target = outputPath(in, "", fmt.Sprintf("-%d.png", *page))
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if err := pdfdeck.Preview(f, doc, *page, opts...); err != nil {
		f.Close()
		os.Remove(target)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Info("preview written", "output", target, "page", *page)
	return nil
}
