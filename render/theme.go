package render

import "github.com/bytespark/pdfdeck/layout"

// Theme holds the colors and faces of a deck. The zero value is not usable;
// start from DefaultTheme.
type Theme struct {
	Background    layout.Color
	AltBackground layout.Color // odd slides when alternating backgrounds
	Accent        layout.Color // badges, highlighted title words, arrow
	Text          layout.Color
	Body          layout.Color // slide descriptions and CTA lines

	Brand    layout.Font
	Badge    layout.Font
	Title    layout.Font
	Subtitle layout.Font
	Heading  layout.Font
	Desc     layout.Font
	Website  layout.Font
}

// DefaultTheme is the dark purple deck style.
func DefaultTheme() Theme {
	return Theme{
		Background:    layout.Hex("#020024"),
		AltBackground: layout.Hex("#0B0A3A"),
		Accent:        layout.Hex("#7C3AED"),
		Text:          layout.Hex("#FFFFFF"),
		Body:          layout.Hex("#E5E7EB"),

		Brand:    layout.Font{Family: "Helvetica", Style: "B", Size: 18},
		Badge:    layout.Font{Family: "Helvetica", Style: "B", Size: 18},
		Title:    layout.Font{Family: "Helvetica", Style: "B", Size: 36},
		Subtitle: layout.Font{Family: "Helvetica", Style: "B", Size: 10},
		Heading:  layout.Font{Family: "Helvetica", Style: "B", Size: 48},
		Desc:     layout.Font{Family: "Helvetica", Size: 20},
		Website:  layout.Font{Family: "Helvetica", Size: 16},
	}
}

// Geometry in points.
const (
	margin       = 40.0 // header and footer inset
	logoMaxW     = 200.0
	logoMaxH     = 80.0
	badgeRadius  = 20.0
	badgePadX    = 20.0
	badgePadY    = 8.0
	illusMaxW    = 500.0
	illusMaxH    = 200.0
	illusGap     = 50.0
	titleGap     = 20.0
	titlePadX    = 40.0
	coverCenter  = 0.4 // fraction of page height the cover block centres on
	contentTop   = 140.0
	contentLeft  = 60.0
	contentRight = 80.0
	headingGap   = 40.0
	descMaxW     = 480.0
	ctaGap       = 16.0
	arrowW       = 40.0
	arrowH       = 20.0
	qrSize       = 110.0
	pdf417W      = 280.0
	pdf417H      = 100.0
	codeGap      = 24.0
)
