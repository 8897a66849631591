package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deusflow/newsletter/internal/config"
	"github.com/deusflow/newsletter/internal/logger"
	"github.com/deusflow/newsletter/internal/metrics"
	"github.com/deusflow/newsletter/internal/pipeline"
	"github.com/deusflow/newsletter/internal/scraper"
	"github.com/deusflow/newsletter/internal/search"
	"github.com/deusflow/newsletter/internal/server"
	"github.com/deusflow/newsletter/internal/summarizer"
)

// App owns every long-lived component. The summarization backend is created
// once here and shared by all requests through the inference gate.
type App struct {
	cfg      *config.Config
	backend  summarizer.Backend
	gate     *summarizer.Gate
	pipeline *pipeline.Pipeline
	server   *server.Server
	metrics  *metrics.Metrics
}

func New(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	m := metrics.Global

	searcher := newSearcher(cfg)
	selectors, ok := scraper.LayoutSelectors(cfg.ArticleLayout())
	if !ok {
		return nil, fmt.Errorf("unknown article layout %q", cfg.ArticleLayout())
	}
	extractor := scraper.NewExtractor(
		scraper.WithHTTPClient(&http.Client{Timeout: cfg.Search.Timeout}),
		scraper.WithUserAgent(cfg.Search.UserAgent),
		scraper.WithSelectors(selectors),
		scraper.WithConcurrency(cfg.Scraper.Concurrency),
	)

	backend, err := summarizer.New(ctx, summarizer.Options{
		Provider: cfg.Summarizer.Provider,
		Model:    cfg.Summarizer.Model,
		Endpoint: cfg.Summarizer.Endpoint,
		APIKey:   apiKey(cfg),
		Timeout:  cfg.Summarizer.Timeout,
		Params:   summarizer.DefaultParams,
	})
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}
	gate := summarizer.NewGate(backend, cfg.Summarizer.Concurrency, cfg.Summarizer.Timeout)

	p := pipeline.New(searcher, extractor, gate, pipeline.Options{
		MaxURLs:             cfg.Search.MaxResults,
		MinContentRunes:     cfg.Scraper.MinContentRunes,
		SimilarityThreshold: cfg.Dedupe.Threshold,
		MaxArticles:         cfg.Dedupe.MaxArticles,
		NoResultsMessage:    cfg.NoResultsMessage,
	}, m)

	srv := server.New(p, m, server.Options{
		RequestTimeout:  cfg.Server.RequestTimeout,
		Version:         version,
		SummarizerStats: gate,
	})

	logger.Info("Application initialized",
		"search_provider", cfg.Search.Provider,
		"article_layout", cfg.ArticleLayout(),
		"summarizer_provider", cfg.Summarizer.Provider,
		"scrape_concurrency", cfg.Scraper.Concurrency,
		"inference_slots", cfg.Summarizer.Concurrency,
	)

	return &App{
		cfg:      cfg,
		backend:  backend,
		gate:     gate,
		pipeline: p,
		server:   srv,
		metrics:  m,
	}, nil
}

func newSearcher(cfg *config.Config) search.Searcher {
	if cfg.Search.Provider == config.SearchRSS {
		return search.NewFeedSearcher(search.FeedOptions{
			Endpoint:   cfg.Search.RSSURL,
			UserAgent:  cfg.Search.UserAgent,
			MaxResults: cfg.Search.MaxResults,
			Timeout:    cfg.Search.Timeout,
		})
	}
	return search.NewHTMLSearcher(search.HTMLOptions{
		Endpoint:     cfg.Search.URL,
		UserAgent:    cfg.Search.UserAgent,
		LinkSelector: cfg.Search.LinkSelector,
		LinkHost:     cfg.Search.LinkHost,
		MaxResults:   cfg.Search.MaxResults,
		Timeout:      cfg.Search.Timeout,
	})
}

func apiKey(cfg *config.Config) string {
	switch cfg.Summarizer.Provider {
	case config.SummarizerGemini:
		return cfg.Summarizer.GeminiAPIKey
	case config.SummarizerOpenAI:
		return cfg.Summarizer.OpenAIAPIKey
	default:
		return cfg.Summarizer.HuggingFaceAPIKey
	}
}

// Handler returns the HTTP routes.
func (a *App) Handler() http.Handler {
	return a.server.SetupRoutes()
}

// Digest runs the pipeline once and returns the formatted newsletter.
func (a *App) Digest(ctx context.Context, keyword string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Server.RequestTimeout)
	defer cancel()

	res, err := a.pipeline.Run(ctx, keyword)
	if err != nil {
		a.metrics.SetError(err.Error())
		return "", err
	}
	a.metrics.SetLastRun()
	return res.Text, nil
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	return a.backend.Close()
}
