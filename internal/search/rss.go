package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedSearcher queries a search engine that answers with an RSS feed, such
// as Google News.
type FeedSearcher struct {
	client     *http.Client
	parser     *gofeed.Parser
	endpoint   string
	userAgent  string
	linkHost   string
	maxResults int
}

type FeedOptions struct {
	Endpoint   string
	UserAgent  string
	LinkHost   string // empty accepts every item link
	MaxResults int
	Timeout    time.Duration
	Client     *http.Client
}

func NewFeedSearcher(opts FeedOptions) *FeedSearcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	max := opts.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}
	return &FeedSearcher{
		client:     client,
		parser:     gofeed.NewParser(),
		endpoint:   opts.Endpoint,
		userAgent:  opts.UserAgent,
		linkHost:   opts.LinkHost,
		maxResults: max,
	}
}

func (s *FeedSearcher) Search(ctx context.Context, keyword string) ([]string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse feed endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", keyword)
	u.RawQuery = q.Encode()

	body, err := get(ctx, s.client, u.String(), s.userAgent)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := s.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	urls := make([]string, 0, s.maxResults)
	for _, item := range feed.Items {
		if len(urls) >= s.maxResults {
			break
		}
		if item.Link == "" || !strings.Contains(item.Link, s.linkHost) {
			continue
		}
		urls = append(urls, item.Link)
	}
	return urls, nil
}
