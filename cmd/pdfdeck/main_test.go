package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/genai"
	"github.com/bytespark/pdfdeck/internal/config"
	"github.com/bytespark/pdfdeck/internal/logger"
)

type generatorFunc func(ctx context.Context, req genai.Request) (deck.Content, error)

func (f generatorFunc) Generate(ctx context.Context, req genai.Request) (deck.Content, error) {
	return f(ctx, req)
}

func newApp(out *bytes.Buffer) *app {
	cfg := config.Config{HighlightWords: config.DefaultHighlightWords, Concurrency: 2}
	return &app{cfg: cfg, log: logger.Nop(), stdout: out}
}

func writeDeck(t *testing.T, dir, name string, doc deck.Document) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := deck.Save(path, doc); err != nil {
		t.Fatalf("saving %s: %v", name, err)
	}
	return path
}

func TestUsage(t *testing.T) {
	a := newApp(&bytes.Buffer{})
	for _, args := range [][]string{nil, {"explode"}, {"render"}, {"preview"}} {
		if err := a.dispatch(context.Background(), args); !errors.Is(err, errUsage) {
			t.Errorf("%v: expected a usage error, got %v", args, err)
		}
	}
}

func TestInit(t *testing.T) {
	var out bytes.Buffer
	if err := newApp(&out).dispatch(context.Background(), []string{"init"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	doc, err := deck.Decode(&out, deck.FormatYAML)
	if err != nil {
		t.Fatalf("init output is not a deck: %v", err)
	}
	if doc.CoverTitle != deck.Default().CoverTitle {
		t.Fatalf("unexpected deck %+v", doc)
	}

	path := filepath.Join(t.TempDir(), "deck.json")
	if err := newApp(&out).dispatch(context.Background(), []string{"init", "-o", path}); err != nil {
		t.Fatalf("init -o: %v", err)
	}
	if _, err := deck.Load(path); err != nil {
		t.Fatalf("loading written deck: %v", err)
	}
}

func TestRenderMany(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	one := writeDeck(t, dir, "one.yaml", deck.Default())
	two := writeDeck(t, dir, "two.json", deck.Default().AddSlide())

	args := []string{"render", "-outdir", outDir, "-alt", "-code", "qr", one, two}
	if err := newApp(&bytes.Buffer{}).dispatch(context.Background(), args); err != nil {
		t.Fatalf("render: %v", err)
	}

	for name, pages := range map[string]int{"one.pdf": 5, "two.pdf": 6} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatal(err)
		}
		if n := bytes.Count(data, []byte("/Type /Page\n")); n != pages {
			t.Errorf("%s: expected %d pages, got %d", name, pages, n)
		}
	}
}

func TestRenderReportsBadDeck(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("slides: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := newApp(&bytes.Buffer{}).dispatch(context.Background(), []string{"render", bad})
	if err == nil || !strings.Contains(err.Error(), "bad.yaml") {
		t.Fatalf("expected an error naming the deck, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("no PDF should be left for a failed deck")
	}
}

func TestRenderRejectsUnknownCode(t *testing.T) {
	path := writeDeck(t, t.TempDir(), "deck.yaml", deck.Default())
	if err := newApp(&bytes.Buffer{}).dispatch(context.Background(), []string{"render", "-code", "aztec", path}); err == nil {
		t.Fatal("expected error")
	}
}

func TestPreview(t *testing.T) {
	path := writeDeck(t, t.TempDir(), "deck.yaml", deck.Default())
	if err := newApp(&bytes.Buffer{}).dispatch(context.Background(), []string{"preview", "-page", "2", "-scale", "0.5", path}); err != nil {
		t.Fatalf("preview: %v", err)
	}
	data, err := os.ReadFile(strings.TrimSuffix(path, ".yaml") + "-2.png")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("preview is not a PNG")
	}
}

func TestDraft(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	a := newApp(&out)
	a.gen = generatorFunc(func(_ context.Context, req genai.Request) (deck.Content, error) {
		if req.Topic != "edge caching" || req.SlideCount != 4 {
			return deck.Content{}, errors.New("unexpected request")
		}
		slides := make([]deck.ContentSlide, req.SlideCount)
		for i := range slides {
			slides[i] = deck.ContentSlide{Heading: "Point", Description: "Detail."}
		}
		return deck.Content{CoverTitle: "CACHE ALL THE THINGS", Slides: slides}, nil
	})

	pdf := filepath.Join(dir, "draft.pdf")
	if err := a.dispatch(context.Background(), []string{"draft", "-topic", "edge caching", "-slides", "4", "-pdf", pdf}); err != nil {
		t.Fatalf("draft: %v", err)
	}
	doc, err := deck.Decode(&out, deck.FormatYAML)
	if err != nil {
		t.Fatalf("draft output is not a deck: %v", err)
	}
	if doc.CoverTitle != "CACHE ALL THE THINGS" || len(doc.Slides) != 4 || doc.Slides[3].Label != "05" {
		t.Fatalf("unexpected draft %+v", doc)
	}
	data, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(data, []byte("/Type /Page\n")); n != 6 {
		t.Fatalf("expected 6 pages, got %d", n)
	}
}

func TestDraftNeedsAPIKey(t *testing.T) {
	err := newApp(&bytes.Buffer{}).dispatch(context.Background(), []string{"draft", "-topic", "x"})
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
