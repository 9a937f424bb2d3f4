package pdfdeck

import (
	"fmt"
	"os"
	"time"

	"github.com/bytespark/pdfdeck/layout"
	"github.com/bytespark/pdfdeck/pageops"
	"github.com/bytespark/pdfdeck/render"
)

// Option configures Export, ExportFile and Preview.
type Option func(*config)

type config struct {
	render       render.Options
	fontFiles    []fontFile
	creationDate time.Time
	watermark    *pageops.TextWatermark
	appendix     []string
	scale        float64
}

type fontFile struct {
	family, style, path string
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{scale: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.fontFiles) > 0 {
		if err := cfg.loadFonts(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadFonts registers the font files and switches every theme font to the
// first registered family.
func (c *config) loadFonts() error {
	fonts := make([]layout.FontFile, 0, len(c.fontFiles))
	for _, f := range c.fontFiles {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return fmt.Errorf("reading font %s: %w", f.path, err)
		}
		fonts = append(fonts, layout.FontFile{Family: f.family, Style: f.style, Data: data})
	}
	m, err := layout.NewMetrics(fonts...)
	if err != nil {
		return err
	}
	c.render.Metrics = m

	theme := render.DefaultTheme()
	if c.render.Theme != nil {
		theme = *c.render.Theme
	}
	family := fonts[0].Family
	for _, f := range []*layout.Font{&theme.Brand, &theme.Badge, &theme.Title, &theme.Subtitle, &theme.Heading, &theme.Desc, &theme.Website} {
		f.Family = family
	}
	c.render.Theme = &theme
	return nil
}

// WithHighlightWords highlights exactly these cover title words.
func WithHighlightWords(words ...string) Option {
	return func(c *config) { c.render.Highlight = render.WordSet(words...) }
}

// WithHighlighter highlights the cover title words hl accepts.
func WithHighlighter(hl render.Highlighter) Option {
	return func(c *config) { c.render.Highlight = hl }
}

// WithAlternateBackground draws every second slide on the alternate
// background colour.
func WithAlternateBackground() Option {
	return func(c *config) { c.render.AlternateBackground = true }
}

// WithContactCode adds a QR or PDF417 code of the website URL to the
// closing page.
func WithContactCode(kind layout.CodeKind) Option {
	return func(c *config) { c.render.ContactCode = kind }
}

// WithTheme replaces the default colours and fonts.
func WithTheme(t render.Theme) Option {
	return func(c *config) { c.render.Theme = &t }
}

// WithFontFile embeds a TrueType font. style is "", "B", "I" or "BI". The
// family of the first font given is used for all deck text, which makes
// characters outside Windows-1252 printable.
func WithFontFile(family, style, path string) Option {
	return func(c *config) {
		c.fontFiles = append(c.fontFiles, fontFile{family: family, style: style, path: path})
	}
}

// WithCreationDate fixes the creation date in the PDF metadata.
func WithCreationDate(t time.Time) Option {
	return func(c *config) { c.creationDate = t }
}

// WithWatermark stamps text diagonally across every page.
func WithWatermark(text string) Option {
	return func(c *config) { c.watermark = &pageops.TextWatermark{Text: text} }
}

// WithAppendix appends the pages of the given PDF files after the deck.
func WithAppendix(paths ...string) Option {
	return func(c *config) { c.appendix = append(c.appendix, paths...) }
}

// WithPreviewScale sets the preview resolution in pixels per point.
// The default is 1.
func WithPreviewScale(scale float64) Option {
	return func(c *config) {
		if scale > 0 {
			c.scale = scale
		}
	}
}
