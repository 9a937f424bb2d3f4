package mcp

import (
	"bytes"
	"encoding/json"

	"github.com/bytespark/pdfdeck/deck"
)

// RegisterDeckResources adds the deck:// resources to the server.
func RegisterDeckResources(s *Server) {
	s.AddResource(Resource{
		URI:         "deck://defaults",
		Name:        "Default deck",
		Description: "The deck a new session starts with, as JSON. A good starting point for create_deck.",
		MIMEType:    "application/json",
		Handler:     handleDefaultsResource,
	})

	s.AddResource(Resource{
		URI:         "deck://schema",
		Name:        "Deck fields",
		Description: "Every field of a deck, what it is used for and how it is drawn.",
		MIMEType:    "application/json",
		Handler:     handleSchemaResource,
	})
}

func handleDefaultsResource(uri string) ([]ResourceContent, error) {
	var buf bytes.Buffer
	if err := deck.Encode(&buf, deck.Default(), deck.FormatJSON); err != nil {
		return nil, err
	}
	return []ResourceContent{{URI: uri, MIMEType: "application/json", Text: buf.String()}}, nil
}

type fieldDoc struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

var fieldDocs = map[deck.Field]string{
	deck.FieldCoverTitle:    "Cover title, drawn upper-case and centred; highlight words use the accent colour",
	deck.FieldCoverSubtitle: "Line under the cover title, drawn upper-case",
	deck.FieldBranding:      "Brand name shown top-left when there is no company logo; also names the exported file",
	deck.FieldWebsiteURL:    "Shown bottom-left on every page; encoded in the optional contact code",
	deck.FieldCTAHeading:    "Heading of the closing page",
	deck.FieldCTAText1:      "First closing line; empty lines are skipped",
	deck.FieldCTAText2:      "Second closing line",
	deck.FieldCTAText3:      "Third closing line",
}

func handleSchemaResource(uri string) ([]ResourceContent, error) {
	fields := make([]fieldDoc, 0, len(deck.Fields)+3)
	for _, f := range deck.Fields {
		fields = append(fields, fieldDoc{Key: string(f), Type: "string", Description: fieldDocs[f]})
	}
	fields = append(fields,
		fieldDoc{Key: "slides", Type: "array", Description: "At least one slide, each {pageNumber, heading, description}; pageNumber is the badge text, description keeps blank-line paragraph breaks"},
		fieldDoc{Key: string(deck.SlotCenterImage), Type: "string", Description: "Optional cover illustration as a data URI (PNG, JPEG or GIF), fitted into 500x200pt"},
		fieldDoc{Key: string(deck.SlotCompanyLogo), Type: "string", Description: "Optional logo as a data URI, fitted into 200x80pt, replaces the branding text"},
	)

	data, err := json.MarshalIndent(map[string]any{"fields": fields}, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{URI: uri, MIMEType: "application/json", Text: string(data)}}, nil
}
