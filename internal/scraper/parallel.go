package scraper

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/newsletter/internal/news"
)

// Result is the outcome of extracting one URL. Exactly one of Article and
// Err is set.
type Result struct {
	URL     string
	Article *news.Article
	Err     error
}

// ExtractAll extracts every url with bounded parallelism. Results come back
// in the same order as urls regardless of completion order, and one failed
// page never cancels the others.
func (e *Extractor) ExtractAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			article, err := e.Extract(ctx, u)
			results[i] = Result{URL: u, Article: article, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
