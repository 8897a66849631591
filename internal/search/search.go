// Package search turns a keyword into an ordered, bounded list of news
// article URLs.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const DefaultMaxResults = 20

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Searcher returns candidate article URLs for a keyword, best match first.
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]string, error)
}

// HTMLSearcher scrapes a search engine's news results page.
type HTMLSearcher struct {
	client       *http.Client
	endpoint     string
	userAgent    string
	linkSelector string
	linkHost     string
	maxResults   int
}

type HTMLOptions struct {
	Endpoint     string
	UserAgent    string
	LinkSelector string // anchors holding result links
	LinkHost     string // substring a link must contain to qualify
	MaxResults   int
	Timeout      time.Duration
	Client       *http.Client
}

func NewHTMLSearcher(opts HTMLOptions) *HTMLSearcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	max := opts.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}
	return &HTMLSearcher{
		client:       client,
		endpoint:     opts.Endpoint,
		userAgent:    opts.UserAgent,
		linkSelector: opts.LinkSelector,
		linkHost:     opts.LinkHost,
		maxResults:   max,
	}
}

func (s *HTMLSearcher) Search(ctx context.Context, keyword string) ([]string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("where", "news")
	q.Set("query", keyword)
	q.Set("sm", "tab_opt")
	q.Set("sort", "0")
	u.RawQuery = q.Encode()

	body, err := get(ctx, s.client, u.String(), s.userAgent)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return parseResults(body, s.linkSelector, s.linkHost, s.maxResults)
}

func parseResults(r io.Reader, selector, host string, max int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	urls := make([]string, 0, max)
	doc.Find(selector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if ok && strings.Contains(href, host) {
			urls = append(urls, href)
		}
		return len(urls) < max
	})
	return urls, nil
}

func get(ctx context.Context, client *http.Client, rawURL, userAgent string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp.Body, nil
}
