package pdfdeck_test

import (
	"bytes"
	"fmt"

	"github.com/bytespark/pdfdeck"
	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/layout"
)

func ExampleExport() {
	doc := deck.Default().AddSlide()
	doc = doc.WithSlideField(3, deck.SlideHeading, "What comes next")

	var buf bytes.Buffer
	if err := pdfdeck.Export(&buf, doc, pdfdeck.WithContactCode(layout.CodeQR)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	// Output: true
}

func ExampleSuggestedFilename() {
	doc, _ := deck.Default().WithField(deck.FieldBranding, "Acme Corp")
	fmt.Println(pdfdeck.SuggestedFilename(doc))
	// Output: Acme-Corp-presentation.pdf
}
