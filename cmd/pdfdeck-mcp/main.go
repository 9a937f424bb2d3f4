// Command pdfdeck-mcp is an MCP (Model Context Protocol) server that lets AI
// assistants build presentation decks.
//
// # Installation
//
//	go install github.com/bytespark/pdfdeck/cmd/pdfdeck-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "pdfdeck": {
//	      "command": "pdfdeck-mcp",
//	      "env": {"GROQ_API_KEY": "gsk_...", "PDFDECK_LOG_MODE": "prod"}
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - create_deck: Render a deck to PDF
//   - draft_deck: Draft deck copy for a topic (needs GROQ_API_KEY)
//   - preview_deck: Render one page as PNG
//   - watermark_pdf: Stamp text on every page of a PDF
//   - append_pdfs: Concatenate PDFs
//
// # Available Resources
//
//   - deck://defaults : The default deck as JSON
//   - deck://schema : Field reference
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytespark/pdfdeck/genai"
	"github.com/bytespark/pdfdeck/internal/config"
	"github.com/bytespark/pdfdeck/internal/logger"
	"github.com/bytespark/pdfdeck/mcp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfdeck-mcp: loading .env: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfdeck-mcp: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ts := mcp.Toolset{Log: log, HighlightWords: cfg.HighlightWords}
	if cfg.RequireAPIKey() == nil {
		ts.Generator = genai.New(genai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}, log)
	} else {
		log.Warn("GROQ_API_KEY is not set; draft_deck is disabled")
	}

	server := mcp.NewServer(log)
	mcp.RegisterDeckTools(server, ts)
	mcp.RegisterDeckResources(server)

	log.Info("pdfdeck-mcp started", "drafting", ts.Generator != nil)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("server stopped", "error", err)
		log.Sync()
		os.Exit(1)
	}
}
