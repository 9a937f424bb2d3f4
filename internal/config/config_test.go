package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var envNames = []string{
	"GROQ_API_KEY",
	"PDFDECK_LLM_BASE_URL",
	"PDFDECK_LLM_MODEL",
	"PDFDECK_LLM_TIMEOUT_SECONDS",
	"PDFDECK_LOG_MODE",
	"PDFDECK_HIGHLIGHT_WORDS",
	"PDFDECK_CONCURRENCY",
}

// clearEnv blanks every variable the package reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envNames {
		t.Setenv(name, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	if cfg.BaseURL != DefaultBaseURL || cfg.Model != DefaultModel {
		t.Fatalf("unexpected endpoint %q %q", cfg.BaseURL, cfg.Model)
	}
	if cfg.Timeout != 60*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if cfg.Concurrency != 4 || cfg.LogMode != "dev" {
		t.Fatalf("unexpected %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.HighlightWords, []string{"HOW", "99.99%"}) {
		t.Fatalf("highlight words = %v", cfg.HighlightWords)
	}
	if !errors.Is(cfg.RequireAPIKey(), ErrMissingAPIKey) {
		t.Fatal("expected missing key error")
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("PDFDECK_LLM_BASE_URL", "http://localhost:8080/")
	t.Setenv("PDFDECK_LLM_TIMEOUT_SECONDS", "5")
	t.Setenv("PDFDECK_HIGHLIGHT_WORDS", " FAST , , 10x ")
	t.Setenv("PDFDECK_CONCURRENCY", "-2")

	cfg := FromEnv()
	if cfg.RequireAPIKey() != nil {
		t.Fatal("api key should be set")
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if !reflect.DeepEqual(cfg.HighlightWords, []string{"FAST", "10x"}) {
		t.Fatalf("highlight words = %v", cfg.HighlightWords)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Fatalf("invalid concurrency should fall back, got %d", cfg.Concurrency)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("GROQ_API_KEY")
	os.Unsetenv("PDFDECK_LLM_MODEL")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GROQ_API_KEY=from-file\nPDFDECK_LLM_MODEL=mixtral\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "from-file" || cfg.Model != "mixtral" {
		t.Fatalf("env file not applied: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}
