package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Search.MaxResults != 20 {
		t.Errorf("max results = %d, want 20", cfg.Search.MaxResults)
	}
	if cfg.Dedupe.Threshold != 0.85 || cfg.Dedupe.MaxArticles != 10 {
		t.Errorf("dedupe = %+v, want 0.85/10", cfg.Dedupe)
	}
	if cfg.Scraper.MinContentRunes != 50 {
		t.Errorf("min content = %d, want 50", cfg.Scraper.MinContentRunes)
	}
	if cfg.Summarizer.Concurrency != 1 {
		t.Errorf("summarizer concurrency = %d, want 1", cfg.Summarizer.Concurrency)
	}
	if cfg.NoResultsMessage != DefaultNoResultsMessage {
		t.Errorf("no results message = %q", cfg.NoResultsMessage)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9090
search:
  provider: rss
  max_results: 5
summarizer:
  timeout: 30s
dedupe:
  threshold: 0.9
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("SCRAPE_CONCURRENCY", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, env should win over file", cfg.Server.Port)
	}
	if cfg.Search.Provider != SearchRSS || cfg.Search.MaxResults != 5 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Summarizer.Timeout != 30*time.Second {
		t.Errorf("summarizer timeout = %v", cfg.Summarizer.Timeout)
	}
	if cfg.Dedupe.Threshold != 0.9 {
		t.Errorf("threshold = %v", cfg.Dedupe.Threshold)
	}
	// untouched keys keep defaults
	if cfg.Dedupe.MaxArticles != 10 {
		t.Errorf("max articles = %d", cfg.Dedupe.MaxArticles)
	}
	if cfg.Scraper.Concurrency != 3 {
		t.Errorf("concurrency = %d", cfg.Scraper.Concurrency)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown search provider", func(c *Config) { c.Search.Provider = "bing" }, "search.provider"},
		{"threshold above one", func(c *Config) { c.Dedupe.Threshold = 1.5 }, "dedupe.threshold"},
		{"zero max articles", func(c *Config) { c.Dedupe.MaxArticles = 0 }, "dedupe.max_articles"},
		{"zero concurrency", func(c *Config) { c.Scraper.Concurrency = 0 }, "scraper.concurrency"},
		{"gemini without key", func(c *Config) { c.Summarizer.Provider = SummarizerGemini }, "summarizer.gemini_api_key"},
		{"openai without key", func(c *Config) { c.Summarizer.Provider = SummarizerOpenAI }, "summarizer.openai_api_key"},
		{"gemini with key", func(c *Config) {
			c.Summarizer.Provider = SummarizerGemini
			c.Summarizer.GeminiAPIKey = "k"
		}, ""},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown layout", func(c *Config) { c.Scraper.Layout = "daum" }, "scraper.layout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("error = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestArticleLayout(t *testing.T) {
	cfg := Default()
	if got := cfg.ArticleLayout(); got != LayoutNaver {
		t.Errorf("html provider layout = %q", got)
	}
	cfg.Search.Provider = SearchRSS
	if got := cfg.ArticleLayout(); got != LayoutGeneric {
		t.Errorf("rss provider layout = %q", got)
	}
	cfg.Scraper.Layout = LayoutNaver
	if got := cfg.ArticleLayout(); got != LayoutNaver {
		t.Errorf("explicit layout = %q", got)
	}
}

func TestAddr(t *testing.T) {
	cfg := Default()
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
