package deck

import (
	_ "embed"
	"fmt"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var defaultDocument = mustDecodeDefaults()

func mustDecodeDefaults() Document {
	doc, err := decode(defaultsYAML, FormatYAML, dataURIOnly)
	if err != nil {
		panic(fmt.Sprintf("deck: embedded defaults: %v", err))
	}
	return doc
}

// Default returns the document a new form starts from.
func Default() Document {
	return defaultDocument.Clone()
}
