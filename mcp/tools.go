package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bytespark/pdfdeck"
	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/form"
	"github.com/bytespark/pdfdeck/genai"
	"github.com/bytespark/pdfdeck/internal/logger"
	"github.com/bytespark/pdfdeck/layout"
	"github.com/bytespark/pdfdeck/pageops"
)

var errNoGenerator = errors.New("content generation is not configured; set GROQ_API_KEY")

// Toolset holds what the deck tools need. A nil Generator disables drafting.
type Toolset struct {
	Generator genai.Generator
	Log       *logger.Logger
	// HighlightWords are used when a call does not pass its own.
	HighlightWords []string
}

// RegisterDeckTools adds the deck tools to the server.
func RegisterDeckTools(s *Server, ts Toolset) {
	if ts.Log == nil {
		ts.Log = logger.Nop()
	}
	s.AddTool(ts.createDeckTool())
	s.AddTool(ts.draftDeckTool())
	s.AddTool(ts.previewDeckTool())
	s.AddTool(watermarkPDFTool())
	s.AddTool(appendPDFsTool())
}

var renderProperties = map[string]any{
	"highlightWords": map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "Cover title words drawn in the accent colour (exact, case-sensitive). Default: HOW, 99.99%",
	},
	"alternateBackground": map[string]any{
		"type":        "boolean",
		"description": "Draw every second slide on a slightly lighter background",
	},
	"contactCode": map[string]any{
		"type":        "string",
		"enum":        []string{"qr", "pdf417"},
		"description": "Add a QR or PDF417 code of the website URL to the closing page",
	},
}

func deckProperty(desc string) map[string]any {
	return map[string]any{
		"type":        "object",
		"description": desc + " Keys: coverTitle, coverSubtitle, branding, websiteUrl, slides[{pageNumber, heading, description}], centerImage, companyLogo (data URIs), ctaHeading, ctaText1..3. See deck://schema.",
	}
}

func schema(required []string, props ...map[string]any) map[string]any {
	merged := map[string]any{}
	for _, p := range props {
		for k, v := range p {
			merged[k] = v
		}
	}
	out := map[string]any{"type": "object", "properties": merged}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func (ts Toolset) createDeckTool() Tool {
	return Tool{
		Name:        "create_deck",
		Description: "Render a presentation deck (cover, one page per slide, call-to-action page) to an A4 PDF. Returns the PDF as base64 unless outputPath is given.",
		InputSchema: schema([]string{"deck"}, renderProperties, map[string]any{
			"deck":       deckProperty("The deck to render."),
			"watermark":  map[string]any{"type": "string", "description": "Optional text stamped diagonally on every page, e.g. DRAFT"},
			"appendix":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "PDF files whose pages are appended after the deck"},
			"outputPath": map[string]any{"type": "string", "description": "Optional file path to save the PDF"},
		}),
		Handler: ts.handleCreateDeck,
	}
}

func (ts Toolset) handleCreateDeck(_ context.Context, args map[string]any) (ToolResult, error) {
	doc, err := deckArg(args, "deck")
	if err != nil {
		return ToolResult{}, err
	}
	opts, err := ts.renderOptions(args)
	if err != nil {
		return ToolResult{}, err
	}
	if text := stringArg(args, "watermark"); text != "" {
		opts = append(opts, pdfdeck.WithWatermark(text))
	}
	if paths := stringsArg(args, "appendix"); len(paths) > 0 {
		opts = append(opts, pdfdeck.WithAppendix(paths...))
	}

	if outputPath := stringArg(args, "outputPath"); outputPath != "" {
		if err := pdfdeck.ExportFile(outputPath, doc, opts...); err != nil {
			return ToolResult{}, err
		}
		info, err := os.Stat(outputPath)
		if err != nil {
			return ToolResult{}, err
		}
		return textResult("Deck created: %s (%d slides, %d bytes)", outputPath, len(doc.Slides), info.Size()), nil
	}

	var buf bytes.Buffer
	if err := pdfdeck.Export(&buf, doc, opts...); err != nil {
		return ToolResult{}, err
	}
	return textResult("Deck created (%d slides, %d bytes). Suggested filename: %s. Base64 data:\n%s",
		len(doc.Slides), buf.Len(), pdfdeck.SuggestedFilename(doc), base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

func (ts Toolset) draftDeckTool() Tool {
	return Tool{
		Name:        "draft_deck",
		Description: "Draft deck copy for a topic with the configured language model. Returns the deck JSON; branding, website and images are taken from the optional base deck. Set outputPath to also render the PDF.",
		InputSchema: schema([]string{"topic"}, renderProperties, map[string]any{
			"topic":      map[string]any{"type": "string", "description": "What the presentation is about"},
			"slideCount": map[string]any{"type": "integer", "description": "Number of content slides (default 3)"},
			"tone":       map[string]any{"type": "string", "description": "professional, casual, technical or marketing (default professional)"},
			"industry":   map[string]any{"type": "string", "description": "Industry context (default technology)"},
			"deck":       deckProperty("Optional base deck; defaults are used when omitted."),
			"outputPath": map[string]any{"type": "string", "description": "Optional file path to render the drafted deck to"},
		}),
		Handler: ts.handleDraftDeck,
	}
}

func (ts Toolset) handleDraftDeck(ctx context.Context, args map[string]any) (ToolResult, error) {
	if ts.Generator == nil {
		return ToolResult{}, errNoGenerator
	}
	topic := stringArg(args, "topic")
	if strings.TrimSpace(topic) == "" {
		return ToolResult{}, fmt.Errorf("missing 'topic' argument")
	}

	base := deck.Default()
	if _, ok := args["deck"]; ok {
		doc, err := deckArg(args, "deck")
		if err != nil {
			return ToolResult{}, err
		}
		base = doc
	}
	opts, err := ts.renderOptions(args)
	if err != nil {
		return ToolResult{}, err
	}

	session := form.New(base, form.WithGenerator(ts.Generator), form.WithLogger(ts.Log))
	defer session.Close()

	req := genai.Request{
		Topic:      topic,
		SlideCount: intArg(args, "slideCount"),
		Tone:       stringArg(args, "tone"),
		Industry:   stringArg(args, "industry"),
	}
	if err := <-session.Generate(ctx, req); err != nil {
		return ToolResult{}, err
	}
	doc := session.Snapshot()

	var text bytes.Buffer
	if err := deck.Encode(&text, doc, deck.FormatJSON); err != nil {
		return ToolResult{}, err
	}
	result := textResult("Draft %s:\n%s", session.ID(), text.String())

	if outputPath := stringArg(args, "outputPath"); outputPath != "" {
		if err := pdfdeck.ExportFile(outputPath, doc, opts...); err != nil {
			return ToolResult{}, err
		}
		result.Content = append(result.Content, ContentBlock{Type: "text", Text: "Rendered to " + outputPath})
	}
	return result, nil
}

func (ts Toolset) previewDeckTool() Tool {
	return Tool{
		Name:        "preview_deck",
		Description: "Render one page of a deck as a PNG image (page 1 is the cover).",
		InputSchema: schema([]string{"deck"}, renderProperties, map[string]any{
			"deck":  deckProperty("The deck to preview."),
			"page":  map[string]any{"type": "integer", "description": "Page number, 1-based (default 1)"},
			"scale": map[string]any{"type": "number", "description": "Pixels per point (default 1)"},
		}),
		Handler: ts.handlePreviewDeck,
	}
}

func (ts Toolset) handlePreviewDeck(_ context.Context, args map[string]any) (ToolResult, error) {
	doc, err := deckArg(args, "deck")
	if err != nil {
		return ToolResult{}, err
	}
	opts, err := ts.renderOptions(args)
	if err != nil {
		return ToolResult{}, err
	}
	if scale, ok := args["scale"].(float64); ok {
		opts = append(opts, pdfdeck.WithPreviewScale(scale))
	}
	page := intArg(args, "page")
	if page == 0 {
		page = 1
	}

	var buf bytes.Buffer
	if err := pdfdeck.Preview(&buf, doc, page, opts...); err != nil {
		return ToolResult{}, err
	}
	return ToolResult{Content: []ContentBlock{
		{Type: "image", MIMEType: "image/png", Data: base64.StdEncoding.EncodeToString(buf.Bytes())},
		{Type: "text", Text: fmt.Sprintf("Page %d of %d", page, len(doc.Slides)+2)},
	}}, nil
}

func watermarkPDFTool() Tool {
	return Tool{
		Name:        "watermark_pdf",
		Description: "Stamp rotated translucent text on every page of a PDF file.",
		InputSchema: schema([]string{"path", "text", "outputPath"}, map[string]any{
			"path":       map[string]any{"type": "string", "description": "Input PDF"},
			"text":       map[string]any{"type": "string", "description": "Watermark text"},
			"fontSize":   map[string]any{"type": "number", "description": "Font size in points (default 60)"},
			"opacity":    map[string]any{"type": "number", "description": "0 to 1 (default 0.3)"},
			"angle":      map[string]any{"type": "number", "description": "Rotation in degrees (default 45)"},
			"outputPath": map[string]any{"type": "string", "description": "Where to write the result"},
		}),
		Handler: handleWatermarkPDF,
	}
}

func handleWatermarkPDF(_ context.Context, args map[string]any) (ToolResult, error) {
	path, out := stringArg(args, "path"), stringArg(args, "outputPath")
	if path == "" || out == "" {
		return ToolResult{}, fmt.Errorf("'path' and 'outputPath' are required")
	}
	wm := pageops.TextWatermark{Text: stringArg(args, "text")}
	wm.FontSize, _ = args["fontSize"].(float64)
	wm.Opacity, _ = args["opacity"].(float64)
	wm.Angle, _ = args["angle"].(float64)

	if err := pageops.WatermarkFile(path, out, wm); err != nil {
		return ToolResult{}, err
	}
	return textResult("Watermark added: %s", out), nil
}

func appendPDFsTool() Tool {
	return Tool{
		Name:        "append_pdfs",
		Description: "Concatenate PDF files in order, for example a rendered deck followed by an appendix.",
		InputSchema: schema([]string{"paths", "outputPath"}, map[string]any{
			"paths":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Input PDFs, in order"},
			"outputPath": map[string]any{"type": "string", "description": "Where to write the result"},
		}),
		Handler: handleAppendPDFs,
	}
}

func handleAppendPDFs(_ context.Context, args map[string]any) (ToolResult, error) {
	paths, out := stringsArg(args, "paths"), stringArg(args, "outputPath")
	if len(paths) == 0 || out == "" {
		return ToolResult{}, fmt.Errorf("'paths' and 'outputPath' are required")
	}
	if err := pageops.AppendFile(out, paths...); err != nil {
		return ToolResult{}, err
	}
	n, err := pageops.PageCount(out)
	if err != nil {
		return ToolResult{}, err
	}
	return textResult("Appended %d files into %s (%d pages)", len(paths), out, n), nil
}

func (ts Toolset) renderOptions(args map[string]any) ([]pdfdeck.Option, error) {
	var opts []pdfdeck.Option
	if words := stringsArg(args, "highlightWords"); len(words) > 0 {
		opts = append(opts, pdfdeck.WithHighlightWords(words...))
	} else if len(ts.HighlightWords) > 0 {
		opts = append(opts, pdfdeck.WithHighlightWords(ts.HighlightWords...))
	}
	if alt, _ := args["alternateBackground"].(bool); alt {
		opts = append(opts, pdfdeck.WithAlternateBackground())
	}
	switch code := layout.CodeKind(stringArg(args, "contactCode")); code {
	case "":
	case layout.CodeQR, layout.CodePDF417:
		opts = append(opts, pdfdeck.WithContactCode(code))
	default:
		return nil, fmt.Errorf("unknown contactCode %q", code)
	}
	return opts, nil
}

func deckArg(args map[string]any, key string) (deck.Document, error) {
	raw, ok := args[key]
	if !ok {
		return deck.Document{}, fmt.Errorf("missing '%s' argument", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return deck.Document{}, fmt.Errorf("encoding %s: %w", key, err)
	}
	doc, err := deck.Decode(bytes.NewReader(data), deck.FormatJSON)
	if err != nil {
		return deck.Document{}, fmt.Errorf("decoding %s: %w", key, err)
	}
	return doc, nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string) int {
	f, _ := args[key].(float64)
	return int(f)
}

func stringsArg(args map[string]any, key string) []string {
	items, _ := args[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
