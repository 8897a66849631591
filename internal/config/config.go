// Package config loads service settings from an optional YAML file, a .env
// file and the process environment, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the config file looked up when no --config flag is given.
	DefaultPath = "config.yaml"

	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122 Safari/537.36"
	DefaultNoResultsMessage = "관련 뉴스를 찾을 수 없거나 본문을 불러오지 못했습니다."
)

// Article page layouts.
const (
	LayoutNaver   = "naver"
	LayoutGeneric = "generic"
)

// Search providers.
const (
	SearchHTML = "html"
	SearchRSS  = "rss"
)

// Summarizer providers.
const (
	SummarizerHuggingFace = "huggingface"
	SummarizerGemini      = "gemini"
	SummarizerOpenAI      = "openai"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Search     SearchConfig     `yaml:"search"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Dedupe     DedupeConfig     `yaml:"dedupe"`
	Summarizer SummarizerConfig `yaml:"summarizer"`

	// NoResultsMessage replaces the digest when no article survives filtering.
	NoResultsMessage string `yaml:"no_results_message"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SearchConfig struct {
	Provider     string        `yaml:"provider"`
	URL          string        `yaml:"url"`
	RSSURL       string        `yaml:"rss_url"`
	MaxResults   int           `yaml:"max_results"`
	LinkSelector string        `yaml:"link_selector"`
	LinkHost     string        `yaml:"link_host"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
}

type ScraperConfig struct {
	Concurrency     int    `yaml:"concurrency"`
	MinContentRunes int    `yaml:"min_content_runes"`
	Layout          string `yaml:"layout"` // naver or generic; empty follows the search provider
}

type DedupeConfig struct {
	Threshold   float64 `yaml:"threshold"`
	MaxArticles int     `yaml:"max_articles"`
}

// SummarizerConfig selects the inference backend. Model and Endpoint fall
// back to the provider's defaults when empty.
type SummarizerConfig struct {
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	Endpoint          string        `yaml:"endpoint"`
	HuggingFaceAPIKey string        `yaml:"huggingface_api_key"`
	GeminiAPIKey      string        `yaml:"gemini_api_key"`
	OpenAIAPIKey      string        `yaml:"openai_api_key"`
	Timeout           time.Duration `yaml:"timeout"`
	Concurrency       int           `yaml:"concurrency"`
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s': %s", e.Field, e.Message)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: 5 * time.Minute,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   6 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Search: SearchConfig{
			Provider:     SearchHTML,
			URL:          "https://search.naver.com/search.naver",
			RSSURL:       "https://news.google.com/rss/search",
			MaxResults:   20,
			LinkSelector: "a.info",
			LinkHost:     "news.naver.com",
			UserAgent:    DefaultUserAgent,
			Timeout:      15 * time.Second,
		},
		Scraper: ScraperConfig{
			Concurrency:     8,
			MinContentRunes: 50,
		},
		Dedupe: DedupeConfig{
			Threshold:   0.85,
			MaxArticles: 10,
		},
		Summarizer: SummarizerConfig{
			Provider:    SummarizerHuggingFace,
			Timeout:     120 * time.Second,
			Concurrency: 1,
		},
		NoResultsMessage: DefaultNoResultsMessage,
	}
}

// Load builds the configuration. A missing file at path is not an error;
// the defaults are used instead.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("HOST", c.Server.Host)
	c.Server.Port = getEnvIntOrDefault("PORT", c.Server.Port)
	c.Server.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", c.Server.RequestTimeout)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)
	if os.Getenv("DEBUG") == "true" {
		c.Log.Level = "debug"
	}

	c.Search.Provider = getEnvOrDefault("SEARCH_PROVIDER", c.Search.Provider)
	c.Search.URL = getEnvOrDefault("SEARCH_URL", c.Search.URL)
	c.Search.RSSURL = getEnvOrDefault("SEARCH_RSS_URL", c.Search.RSSURL)
	c.Search.MaxResults = getEnvIntOrDefault("SEARCH_MAX_RESULTS", c.Search.MaxResults)
	c.Search.LinkSelector = getEnvOrDefault("SEARCH_LINK_SELECTOR", c.Search.LinkSelector)
	c.Search.LinkHost = getEnvOrDefault("SEARCH_LINK_HOST", c.Search.LinkHost)
	c.Search.UserAgent = getEnvOrDefault("USER_AGENT", c.Search.UserAgent)
	c.Search.Timeout = getEnvDurationOrDefault("HTTP_TIMEOUT", c.Search.Timeout)

	c.Scraper.Concurrency = getEnvIntOrDefault("SCRAPE_CONCURRENCY", c.Scraper.Concurrency)
	c.Scraper.MinContentRunes = getEnvIntOrDefault("MIN_CONTENT_RUNES", c.Scraper.MinContentRunes)
	c.Scraper.Layout = getEnvOrDefault("SCRAPE_LAYOUT", c.Scraper.Layout)

	c.Dedupe.Threshold = getEnvFloatOrDefault("DEDUPE_THRESHOLD", c.Dedupe.Threshold)
	c.Dedupe.MaxArticles = getEnvIntOrDefault("DEDUPE_MAX", c.Dedupe.MaxArticles)

	c.Summarizer.Provider = getEnvOrDefault("SUMMARIZER_PROVIDER", c.Summarizer.Provider)
	c.Summarizer.Model = getEnvOrDefault("SUMMARIZER_MODEL", c.Summarizer.Model)
	c.Summarizer.Endpoint = getEnvOrDefault("SUMMARIZER_ENDPOINT", c.Summarizer.Endpoint)
	c.Summarizer.HuggingFaceAPIKey = getEnvOrDefault("HUGGINGFACE_API_KEY", c.Summarizer.HuggingFaceAPIKey)
	c.Summarizer.GeminiAPIKey = getEnvOrDefault("GEMINI_API_KEY", c.Summarizer.GeminiAPIKey)
	c.Summarizer.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", c.Summarizer.OpenAIAPIKey)
	c.Summarizer.Timeout = getEnvDurationOrDefault("SUMMARIZER_TIMEOUT", c.Summarizer.Timeout)
	c.Summarizer.Concurrency = getEnvIntOrDefault("SUMMARIZER_CONCURRENCY", c.Summarizer.Concurrency)

	c.NoResultsMessage = getEnvOrDefault("NO_RESULTS_MESSAGE", c.NoResultsMessage)
}

// ArticleLayout names the page layout the extractor parses. Feed results
// link to arbitrary publishers, so the rss provider defaults to the generic
// layout.
func (c *Config) ArticleLayout() string {
	if c.Scraper.Layout != "" {
		return c.Scraper.Layout
	}
	if c.Search.Provider == SearchRSS {
		return LayoutGeneric
	}
	return LayoutNaver
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 1 and 65535"}
	}
	if c.Server.RequestTimeout <= 0 {
		return &ConfigError{Field: "server.request_timeout", Message: "must be positive"}
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: "must be 'text' or 'json'"}
	}

	switch c.Search.Provider {
	case SearchHTML:
		if c.Search.URL == "" {
			return &ConfigError{Field: "search.url", Message: "is required for the html provider"}
		}
		if c.Search.LinkSelector == "" {
			return &ConfigError{Field: "search.link_selector", Message: "is required for the html provider"}
		}
	case SearchRSS:
		if c.Search.RSSURL == "" {
			return &ConfigError{Field: "search.rss_url", Message: "is required for the rss provider"}
		}
	default:
		return &ConfigError{Field: "search.provider", Message: fmt.Sprintf("unknown provider %q", c.Search.Provider)}
	}
	if c.Search.MaxResults <= 0 {
		return &ConfigError{Field: "search.max_results", Message: "must be positive"}
	}
	if c.Search.Timeout <= 0 {
		return &ConfigError{Field: "search.timeout", Message: "must be positive"}
	}

	if c.Scraper.Concurrency <= 0 {
		return &ConfigError{Field: "scraper.concurrency", Message: "must be positive"}
	}
	if c.Scraper.MinContentRunes < 0 {
		return &ConfigError{Field: "scraper.min_content_runes", Message: "must not be negative"}
	}
	switch c.Scraper.Layout {
	case "", LayoutNaver, LayoutGeneric:
	default:
		return &ConfigError{Field: "scraper.layout", Message: fmt.Sprintf("unknown layout %q", c.Scraper.Layout)}
	}

	if c.Dedupe.Threshold < 0 || c.Dedupe.Threshold > 1 {
		return &ConfigError{Field: "dedupe.threshold", Message: "must be within [0, 1]"}
	}
	if c.Dedupe.MaxArticles <= 0 {
		return &ConfigError{Field: "dedupe.max_articles", Message: "must be positive"}
	}

	switch c.Summarizer.Provider {
	case SummarizerHuggingFace:
	case SummarizerGemini:
		if c.Summarizer.GeminiAPIKey == "" {
			return &ConfigError{Field: "summarizer.gemini_api_key", Message: "GEMINI_API_KEY is required"}
		}
	case SummarizerOpenAI:
		if c.Summarizer.OpenAIAPIKey == "" {
			return &ConfigError{Field: "summarizer.openai_api_key", Message: "OPENAI_API_KEY is required"}
		}
	default:
		return &ConfigError{Field: "summarizer.provider", Message: fmt.Sprintf("unknown provider %q", c.Summarizer.Provider)}
	}
	if c.Summarizer.Timeout <= 0 {
		return &ConfigError{Field: "summarizer.timeout", Message: "must be positive"}
	}
	if c.Summarizer.Concurrency <= 0 {
		return &ConfigError{Field: "summarizer.concurrency", Message: "must be positive"}
	}
	return nil
}
