// Package newsletter renders the digest and per-article summaries as the
// emoji-prefixed plain text returned to clients, and reads it back.
package newsletter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deusflow/newsletter/internal/news"
)

const (
	DigestPrefix  = "🧠 "
	TitlePrefix   = "📰 "
	URLPrefix     = "📎 "
	PressPrefix   = "🗞️ "
	SummaryPrefix = "📝 "

	pressDateSep = " | "
	blockSep     = "\n\n"
)

var ErrMalformed = errors.New("malformed newsletter")

// Format writes the digest followed by one block per article, separated by
// blank lines, and trims surrounding whitespace from the result.
func Format(digest string, articles []*news.Article) string {
	var sb strings.Builder
	sb.WriteString(DigestPrefix)
	sb.WriteString(digest)
	sb.WriteString(blockSep)

	for _, a := range articles {
		fmt.Fprintf(&sb, "%s%s\n%s%s\n%s%s%s%s\n%s%s%s",
			TitlePrefix, a.Title,
			URLPrefix, a.URL,
			PressPrefix, a.Press, pressDateSep, a.Date,
			SummaryPrefix, a.Summary,
			blockSep,
		)
	}

	return strings.TrimSpace(sb.String())
}

// Parse splits text produced by Format back into the digest and the article
// blocks in their original order. Parsed articles carry no content.
func Parse(text string) (string, []*news.Article, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, strings.TrimSpace(DigestPrefix)) {
		return "", nil, fmt.Errorf("%w: missing digest prefix", ErrMalformed)
	}

	parts := strings.Split(text, blockSep+TitlePrefix)
	digest := strings.TrimPrefix(parts[0], strings.TrimSpace(DigestPrefix))
	digest = strings.TrimPrefix(digest, " ")
	digest = strings.TrimSuffix(digest, blockSep)

	articles := make([]*news.Article, 0, len(parts)-1)
	for i, block := range parts[1:] {
		a, err := parseBlock(block)
		if err != nil {
			return "", nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		articles = append(articles, a)
	}
	return digest, articles, nil
}

func parseBlock(block string) (*news.Article, error) {
	lines := strings.SplitN(block, "\n", 4)
	if len(lines) < 4 {
		return nil, fmt.Errorf("%w: expected 4 lines, got %d", ErrMalformed, len(lines))
	}

	url, ok := strings.CutPrefix(lines[1], URLPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: missing url line", ErrMalformed)
	}
	meta, ok := strings.CutPrefix(lines[2], PressPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: missing publisher line", ErrMalformed)
	}
	summary, ok := strings.CutPrefix(lines[3], SummaryPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: missing summary line", ErrMalformed)
	}

	// the date never contains the separator, the publisher might
	idx := strings.LastIndex(meta, pressDateSep)
	if idx < 0 {
		return nil, fmt.Errorf("%w: missing publisher/date separator", ErrMalformed)
	}

	return &news.Article{
		Title:   lines[0],
		URL:     url,
		Press:   meta[:idx],
		Date:    meta[idx+len(pressDateSep):],
		Summary: strings.TrimSuffix(summary, blockSep),
	}, nil
}
