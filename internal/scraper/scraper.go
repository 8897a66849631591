package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/deusflow/newsletter/internal/news"
)

var (
	ErrFetch  = errors.New("fetch failed")
	ErrStatus = errors.New("unexpected status code")
	ErrParse  = errors.New("parse failed")
)

// Selectors locate the article regions on a news page.
type Selectors struct {
	Headline  string
	Press     string
	PressAttr string // attribute of Press naming the publisher
	Timestamp string
	DateAttr  string // attribute of Timestamp holding the date
	Body      string
}

// NaverSelectors match the news.naver.com article layout.
var NaverSelectors = Selectors{
	Headline:  ".media_end_head_headline",
	Press:     ".media_end_head_top_logo img",
	PressAttr: "alt",
	Timestamp: ".media_end_head_info_datestamp_time",
	DateAttr:  "data-date-time",
	Body:      "#dic_area",
}

// GenericSelectors fit publisher pages reached through a feed: the first
// heading, Open Graph site name, an HTML5 time element and the article body.
var GenericSelectors = Selectors{
	Headline:  "h1",
	Press:     `meta[property="og:site_name"]`,
	PressAttr: "content",
	Timestamp: "time[datetime]",
	DateAttr:  "datetime",
	Body:      "article",
}

// LayoutSelectors returns the selectors registered under name.
func LayoutSelectors(name string) (Selectors, bool) {
	switch name {
	case "naver":
		return NaverSelectors, true
	case "generic":
		return GenericSelectors, true
	}
	return Selectors{}, false
}

type Extractor struct {
	client      *http.Client
	userAgent   string
	selectors   Selectors
	concurrency int
}

type Option func(*Extractor)

func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) { e.client = c }
}

func WithUserAgent(ua string) Option {
	return func(e *Extractor) { e.userAgent = ua }
}

func WithSelectors(s Selectors) Option {
	return func(e *Extractor) { e.selectors = s }
}

// WithConcurrency bounds the number of pages fetched at once by ExtractAll.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		client:      &http.Client{Timeout: 15 * time.Second},
		selectors:   NaverSelectors,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches url and pulls out the article fields. Missing regions
// become placeholders; only transport, status and parse failures are errors.
func (e *Extractor) Extract(ctx context.Context, url string) (*news.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, url, err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s: %d", ErrStatus, url, resp.StatusCode)
	}

	return Parse(resp.Body, url, e.selectors)
}

// Parse reads an article page. Text fields keep every non-empty text node
// trimmed and joined without separators.
func Parse(r io.Reader, url string, sel Selectors) (*news.Article, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, url, err)
	}

	article := &news.Article{
		Title: news.TitlePlaceholder,
		Press: news.PressPlaceholder,
		Date:  news.DatePlaceholder,
		URL:   url,
	}

	if s := doc.Find(sel.Headline).First(); s.Length() > 0 {
		article.Title = strippedText(s)
	}
	if s := doc.Find(sel.Press).First(); s.Length() > 0 {
		if name, ok := s.Attr(sel.PressAttr); ok {
			article.Press = name
		}
	}
	if s := doc.Find(sel.Timestamp).First(); s.Length() > 0 {
		if ts, ok := s.Attr(sel.DateAttr); ok {
			article.Date = news.TruncateDate(ts)
		}
	}
	if s := doc.Find(sel.Body).First(); s.Length() > 0 {
		article.Content = strippedText(s)
	}

	return article, nil
}

func strippedText(s *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range s.Nodes {
		appendStrippedText(n, &sb)
	}
	return sb.String()
}

func appendStrippedText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "template":
			return
		}
	}

	if n.Type == html.TextNode {
		sb.WriteString(strings.TrimSpace(n.Data))
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendStrippedText(c, sb)
	}
}
