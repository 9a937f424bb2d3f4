package render

import (
	"strings"

	"github.com/bytespark/pdfdeck/layout"
)

// Highlighter reports whether a cover title word is drawn in the accent
// color. Words are compared as written, before upper-casing.
type Highlighter func(word string) bool

// DefaultHighlightWords are highlighted when no Highlighter is given.
var DefaultHighlightWords = []string{"HOW", "99.99%"}

// WordSet returns a Highlighter matching exactly the given words. Matching
// is case-sensitive and whole-word: "HOW" does not match "how" or "HOWEVER".
func WordSet(words ...string) Highlighter {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return func(word string) bool {
		_, ok := set[word]
		return ok
	}
}

// Split breaks a cover title into one run per whitespace-separated word,
// upper-cased, with highlighted words in the default accent color.
func Split(title string, hl Highlighter) []layout.Run {
	t := DefaultTheme()
	return split(title, hl, t.Text, t.Accent)
}

func split(title string, hl Highlighter, text, accent layout.Color) []layout.Run {
	words := strings.Fields(title)
	runs := make([]layout.Run, 0, len(words))
	for _, w := range words {
		c := text
		if hl != nil && hl(w) {
			c = accent
		}
		runs = append(runs, layout.Run{Text: strings.ToUpper(w), Color: c})
	}
	return runs
}
