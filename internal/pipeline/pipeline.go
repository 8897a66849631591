// Package pipeline drives one keyword through search, extraction,
// deduplication and summarization, and formats the newsletter.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/newsletter/internal/logger"
	"github.com/deusflow/newsletter/internal/metrics"
	"github.com/deusflow/newsletter/internal/news"
	"github.com/deusflow/newsletter/internal/newsletter"
	"github.com/deusflow/newsletter/internal/scraper"
	"github.com/deusflow/newsletter/internal/search"
	"github.com/deusflow/newsletter/internal/summarizer"
)

var (
	ErrSearch    = errors.New("search failed")
	ErrSummarize = errors.New("summarization failed")
)

// Extractor fetches articles for a list of URLs, returning one result per
// URL in input order.
type Extractor interface {
	ExtractAll(ctx context.Context, urls []string) []scraper.Result
}

type Options struct {
	MaxURLs             int
	MinContentRunes     int
	SimilarityThreshold float64
	MaxArticles         int
	NoResultsMessage    string
}

func DefaultOptions() Options {
	return Options{
		MaxURLs:             search.DefaultMaxResults,
		MinContentRunes:     news.MinContentRunes,
		SimilarityThreshold: news.DefaultSimilarityThreshold,
		MaxArticles:         news.DefaultMaxArticles,
		NoResultsMessage:    "관련 뉴스를 찾을 수 없거나 본문을 불러오지 못했습니다.",
	}
}

// Result is everything one run produced.
type Result struct {
	Keyword  string
	URLs     []string
	Articles []*news.Article // deduplicated, with summaries attached
	Digest   string
	Text     string // formatted newsletter
}

type Pipeline struct {
	searcher   search.Searcher
	extractor  Extractor
	summarizer summarizer.Summarizer
	opts       Options
	metrics    *metrics.Metrics
}

func New(s search.Searcher, e Extractor, sum summarizer.Summarizer, opts Options, m *metrics.Metrics) *Pipeline {
	if m == nil {
		m = metrics.Global
	}
	return &Pipeline{
		searcher:   s,
		extractor:  e,
		summarizer: sum,
		opts:       opts,
		metrics:    m,
	}
}

// Run builds the newsletter for keyword. Search and summarization failures
// abort the run; a page that cannot be extracted is skipped unless ctx has
// expired, in which case Run returns the context error.
func (p *Pipeline) Run(ctx context.Context, keyword string) (*Result, error) {
	start := time.Now()
	defer func() { p.metrics.RecordProcessingTime(time.Since(start)) }()

	urls, err := p.searcher.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	if p.opts.MaxURLs > 0 && len(urls) > p.opts.MaxURLs {
		urls = urls[:p.opts.MaxURLs]
	}
	p.metrics.AddURLsFound(len(urls))
	logger.Info("Search finished", "keyword", keyword, "urls", len(urls))

	articles := p.extract(ctx, urls)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract articles: %w", err)
	}

	kept, short := news.FilterShort(articles, p.opts.MinContentRunes)
	for i := 0; i < short; i++ {
		p.metrics.IncrementShortContentDropped()
	}

	deduped := news.Dedupe(kept, p.opts.SimilarityThreshold, p.opts.MaxArticles)
	p.metrics.AddDuplicatesFiltered(len(kept) - len(deduped))
	logger.Info("Articles selected",
		"extracted", len(articles),
		"short_dropped", short,
		"kept", len(deduped),
	)

	var buf strings.Builder
	for _, a := range deduped {
		summary, err := p.summarizer.Summarize(ctx, a.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: article %s: %w", ErrSummarize, a.URL, err)
		}
		p.metrics.IncrementSummariesGenerated()
		a.Summary = summary
		buf.WriteString(summary)
		buf.WriteString(" ")
	}

	digest := p.opts.NoResultsMessage
	if len(deduped) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: digest: %w", ErrSummarize, err)
		}
		digest, err = p.summarizer.Summarize(ctx, buf.String())
		if err != nil {
			return nil, fmt.Errorf("%w: digest: %w", ErrSummarize, err)
		}
		p.metrics.IncrementSummariesGenerated()
	}

	return &Result{
		Keyword:  keyword,
		URLs:     urls,
		Articles: deduped,
		Digest:   digest,
		Text:     newsletter.Format(digest, deduped),
	}, nil
}

func (p *Pipeline) extract(ctx context.Context, urls []string) []*news.Article {
	if len(urls) == 0 {
		return nil
	}

	results := p.extractor.ExtractAll(ctx, urls)
	articles := make([]*news.Article, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			p.metrics.IncrementExtractionFailures()
			logger.Warn("Article extraction failed", "url", r.URL, "error", r.Err)
			continue
		}
		if r.Article == nil {
			continue
		}
		p.metrics.IncrementArticlesExtracted()
		articles = append(articles, r.Article)
	}
	return articles
}
