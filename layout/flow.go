package layout

import "strings"

type word struct {
	text  string
	color Color
	width float64
}

// Wrap breaks runs into lines no wider than width (0 disables wrapping).
// "\n" forces a break, so "\n\n" leaves an empty line between paragraphs.
// A single word wider than width gets a line of its own and overflows.
func Wrap(m *Metrics, runs []Run, style TextStyle, width float64) []Line {
	font := m.Resolve(style.Font)
	space := m.Width(" ", font)
	advance := style.lineAdvance()
	ascent := (advance-font.Size)/2 + font.Size*0.8

	var lines []Line
	for _, para := range paragraphs(runs) {
		var cur []word
		curW := 0.0
		flush := func() {
			lines = append(lines, buildLine(cur, space))
			cur, curW = nil, 0
		}
		for _, w := range para {
			w.width = m.Width(w.text, font)
			next := w.width
			if len(cur) > 0 {
				next = curW + space + w.width
			}
			if width > 0 && len(cur) > 0 && next > width {
				flush()
				next = w.width
			}
			cur = append(cur, w)
			curW = next
		}
		flush()
	}

	for i := range lines {
		lines[i].Baseline = float64(i)*advance + ascent
		shift := 0.0
		switch style.Align {
		case AlignCenter:
			shift = (width - lines[i].Width) / 2
		case AlignRight:
			shift = width - lines[i].Width
		}
		if shift != 0 {
			for j := range lines[i].Segments {
				lines[i].Segments[j].X += shift
			}
		}
	}
	return lines
}

// Height returns the vertical space taken by n lines in style.
func Height(n int, style TextStyle) float64 {
	return float64(n) * style.lineAdvance()
}

// paragraphs splits runs into words grouped by hard line break.
func paragraphs(runs []Run) [][]word {
	paras := [][]word{nil}
	for _, r := range runs {
		for i, part := range strings.Split(r.Text, "\n") {
			if i > 0 {
				paras = append(paras, nil)
			}
			for _, f := range strings.Fields(part) {
				last := len(paras) - 1
				paras[last] = append(paras[last], word{text: f, color: r.Color})
			}
		}
	}
	return paras
}

// buildLine merges neighbouring words of the same color into segments.
func buildLine(words []word, space float64) Line {
	var ln Line
	x := 0.0
	for i, w := range words {
		if i > 0 {
			x += space
		}
		n := len(ln.Segments)
		if n > 0 && ln.Segments[n-1].Color == w.color {
			ln.Segments[n-1].Text += " " + w.text
		} else {
			ln.Segments = append(ln.Segments, Segment{X: x, Text: w.text, Color: w.color})
		}
		x += w.width
	}
	ln.Width = x
	return ln
}
