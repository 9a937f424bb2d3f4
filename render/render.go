// Package render lays out a deck.Document as pages: a cover, one page per
// slide and a closing call-to-action page.
//
// Pages is a pure function of its inputs. It never modifies the Document and
// returns equal pages for equal inputs, which makes layouts easy to test
// without looking at PDF bytes.
package render

import (
	"fmt"
	"strings"

	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/layout"
)

// Options adjust rendering. The zero value renders the default look.
type Options struct {
	// Highlight selects accent words of the cover title. Nil means
	// WordSet(DefaultHighlightWords...).
	Highlight Highlighter

	// AlternateBackground draws odd-indexed slides on Theme.AltBackground.
	AlternateBackground bool

	// ContactCode adds a QR or PDF417 code of the website URL to the CTA
	// page. Empty means none.
	ContactCode layout.CodeKind

	// Theme overrides DefaultTheme.
	Theme *Theme

	// Metrics measures text; nil means layout.CoreMetrics.
	Metrics *layout.Metrics
}

// Pages lays out doc. The result always has len(doc.Slides)+2 pages.
func Pages(doc deck.Document, opts Options) ([]layout.Page, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	r := newRenderer(doc.Clone(), opts)

	pages := make([]layout.Page, 0, len(doc.Slides)+2)
	cover, err := r.cover()
	if err != nil {
		return nil, fmt.Errorf("render: cover: %w", err)
	}
	pages = append(pages, cover)

	for i, s := range r.doc.Slides {
		p, err := r.slide(i, s)
		if err != nil {
			return nil, fmt.Errorf("render: slide %d: %w", i+1, err)
		}
		pages = append(pages, p)
	}

	cta, err := r.cta()
	if err != nil {
		return nil, fmt.Errorf("render: call to action: %w", err)
	}
	return append(pages, cta), nil
}

type renderer struct {
	doc   deck.Document
	opts  Options
	theme Theme
	m     *layout.Metrics
	logo  *deck.Image // nil when absent or undecodable
	illus *deck.Image
}

func newRenderer(doc deck.Document, opts Options) *renderer {
	r := &renderer{doc: doc, opts: opts, theme: DefaultTheme(), m: opts.Metrics}
	if opts.Theme != nil {
		r.theme = *opts.Theme
	}
	if r.m == nil {
		r.m = layout.CoreMetrics()
	}
	if r.opts.Highlight == nil {
		r.opts.Highlight = WordSet(DefaultHighlightWords...)
	}
	r.logo = usable(doc.CompanyLogo)
	r.illus = usable(doc.CenterImage)
	return r
}

// usable drops images the PDF writer could not embed, so a broken upload
// falls back to the branding text instead of failing the export.
func usable(img *deck.Image) *deck.Image {
	if img == nil || img.Format() == "" {
		return nil
	}
	if _, _, err := img.Size(); err != nil {
		return nil
	}
	return img
}

func (r *renderer) builder(bg layout.Color) *layout.Builder {
	return layout.NewBuilder(layout.A4, bg, r.m)
}

func (r *renderer) style(f layout.Font, lineHeight float64) layout.TextStyle {
	return layout.TextStyle{Font: f, LineHeight: lineHeight}
}

// header draws the logo (or branding text) on the left and, when badge is
// not empty, the page badge on the right, vertically centred on one row.
func (r *renderer) header(b *layout.Builder, badge string) error {
	size := b.Size()

	var leftW, leftH float64
	if r.logo != nil {
		w, h, err := layout.Contain(r.logo, logoMaxW, logoMaxH)
		if err != nil {
			return err
		}
		leftW, leftH = w, h
	} else {
		leftH = b.MeasureText(0, r.style(r.theme.Brand, 0), layout.Run{Text: r.doc.Branding})
	}

	badgeStyle := r.style(r.theme.Badge, 0)
	var badgeW, badgeH float64
	if badge != "" {
		badgeW = r.m.Width(badge, r.theme.Badge) + 2*badgePadX
		badgeH = b.MeasureText(0, badgeStyle, layout.Run{Text: badge}) + 2*badgePadY
	}

	rowH := leftH
	if badgeH > rowH {
		rowH = badgeH
	}

	leftY := margin + (rowH-leftH)/2
	if r.logo != nil {
		b.AddImage(layout.Box{X: margin, Y: leftY, W: leftW, H: leftH}, r.logo)
	} else {
		b.AddText(layout.Box{X: margin, Y: leftY}, r.style(r.theme.Brand, 0),
			layout.Run{Text: r.doc.Branding, Color: r.theme.Text})
	}

	if badge != "" {
		x := size.W - margin - badgeW
		y := margin + (rowH-badgeH)/2
		b.AddBlock(layout.Box{X: x, Y: y, W: badgeW, H: badgeH}, r.theme.Accent, badgeRadius)
		b.AddText(layout.Box{X: x + badgePadX, Y: y + badgePadY}, badgeStyle,
			layout.Run{Text: badge, Color: r.theme.Text})
	}
	return b.Err()
}

// arrow is a right-pointing arrow inside a 40x20 box.
var arrow = []layout.Point{
	{X: 0, Y: 7}, {X: 26, Y: 7}, {X: 26, Y: 0}, {X: arrowW, Y: arrowH / 2},
	{X: 26, Y: arrowH}, {X: 26, Y: 13}, {X: 0, Y: 13},
}

func (r *renderer) footer(b *layout.Builder) {
	size := b.Size()
	style := r.style(r.theme.Website, 0)
	textH := b.MeasureText(0, style, layout.Run{Text: r.doc.WebsiteURL})

	rowH := textH
	if arrowH > rowH {
		rowH = arrowH
	}
	top := size.H - margin - rowH

	b.AddText(layout.Box{X: margin, Y: top + (rowH-textH)/2}, style,
		layout.Run{Text: r.doc.WebsiteURL, Color: r.theme.Text})
	b.AddShape(layout.Box{X: size.W - margin - arrowW, Y: top + (rowH-arrowH)/2, W: arrowW, H: arrowH},
		r.theme.Accent, arrow...)
}

func (r *renderer) cover() (layout.Page, error) {
	b := r.builder(r.theme.Background)
	if err := r.header(b, "01"); err != nil {
		return layout.Page{}, err
	}

	size := b.Size()
	textW := size.W - 2*titlePadX
	titleStyle := layout.TextStyle{Font: r.theme.Title, LineHeight: 1.2, Align: layout.AlignCenter}
	subStyle := layout.TextStyle{Font: r.theme.Subtitle, LineHeight: 0.95, Align: layout.AlignCenter}

	titleRuns := split(r.doc.CoverTitle, r.opts.Highlight, r.theme.Text, r.theme.Accent)
	subRuns := []layout.Run{{Text: strings.ToUpper(r.doc.CoverSubtitle), Color: r.theme.Text}}

	var illusW, illusH float64
	if r.illus != nil {
		w, h, err := layout.Contain(r.illus, illusMaxW, illusMaxH)
		if err != nil {
			return layout.Page{}, err
		}
		illusW, illusH = w, h
	}

	blockH := b.MeasureText(textW, titleStyle, titleRuns...) + titleGap + b.MeasureText(textW, subStyle, subRuns...)
	if r.illus != nil {
		blockH += illusH + illusGap
	}
	b.MoveTo(size.H*coverCenter - blockH/2)

	if r.illus != nil {
		b.AddImage(layout.Box{X: (size.W - illusW) / 2, Y: b.Cursor(), W: illusW, H: illusH}, r.illus)
		b.Skip(illusH + illusGap)
	}
	b.FlowText(titlePadX, textW, titleStyle, titleGap, titleRuns...)
	b.FlowText(titlePadX, textW, subStyle, 0, subRuns...)

	r.footer(b)
	return b.Page()
}

func (r *renderer) contentWidth() float64 {
	return layout.A4.W - contentLeft - contentRight
}

func (r *renderer) bodyWidth() float64 {
	if w := r.contentWidth(); w < descMaxW {
		return w
	}
	return descMaxW
}

func (r *renderer) slide(i int, s deck.Slide) (layout.Page, error) {
	bg := r.theme.Background
	if r.opts.AlternateBackground && i%2 == 1 {
		bg = r.theme.AltBackground
	}
	b := r.builder(bg)
	if err := r.header(b, s.Label); err != nil {
		return layout.Page{}, err
	}

	b.MoveTo(contentTop).
		FlowText(contentLeft, r.contentWidth(), r.style(r.theme.Heading, 1.1), headingGap,
			layout.Run{Text: s.Heading, Color: r.theme.Text}).
		FlowText(contentLeft, r.bodyWidth(), r.style(r.theme.Desc, 1.5), 0,
			layout.Run{Text: s.Description, Color: r.theme.Body})

	r.footer(b)
	return b.Page()
}

func (r *renderer) cta() (layout.Page, error) {
	b := r.builder(r.theme.Background)
	if err := r.header(b, ""); err != nil {
		return layout.Page{}, err
	}

	b.MoveTo(contentTop).
		FlowText(contentLeft, r.contentWidth(), r.style(r.theme.Heading, 1.1), headingGap,
			layout.Run{Text: r.doc.CTAHeading, Color: r.theme.Text})
	for _, line := range r.doc.CTALines() {
		b.FlowText(contentLeft, r.bodyWidth(), r.style(r.theme.Desc, 1.5), ctaGap,
			layout.Run{Text: line, Color: r.theme.Body})
	}

	if r.opts.ContactCode != "" && r.doc.WebsiteURL != "" {
		box := layout.Box{X: contentLeft, Y: b.Cursor() + codeGap, W: qrSize, H: qrSize}
		if r.opts.ContactCode == layout.CodePDF417 {
			box.W, box.H = pdf417W, pdf417H
		}
		b.AddCode(box, r.opts.ContactCode, r.doc.WebsiteURL)
	}

	r.footer(b)
	return b.Page()
}
