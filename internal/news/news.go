// Package news holds the article model shared by the scraper, the
// deduplicator and the summarizer.
package news

import "unicode/utf8"

// Placeholders for fields the extractor could not locate on a page.
const (
	TitlePlaceholder = "제목 없음"
	PressPlaceholder = "언론사 없음"
	DatePlaceholder  = "날짜 없음"
)

const (
	// MinContentRunes is the shortest body worth summarizing.
	MinContentRunes = 50
	// DateLength is the number of leading runes kept from a timestamp.
	DateLength = 10
)

// Article is a single scraped news item. It lives for one request only.
type Article struct {
	Title   string `json:"title"`
	Press   string `json:"press"`
	Date    string `json:"date"`
	Content string `json:"content"`
	URL     string `json:"url"`

	// Summary is empty until the summarizer has run.
	Summary string `json:"summary,omitempty"`
}

// HasContent reports whether the body has at least minRunes characters.
func (a *Article) HasContent(minRunes int) bool {
	return utf8.RuneCountInString(a.Content) >= minRunes
}

// FilterShort drops articles whose body is below minRunes and reports how
// many were dropped. Order is preserved.
func FilterShort(articles []*Article, minRunes int) ([]*Article, int) {
	kept := make([]*Article, 0, len(articles))
	for _, a := range articles {
		if a == nil || !a.HasContent(minRunes) {
			continue
		}
		kept = append(kept, a)
	}
	return kept, len(articles) - len(kept)
}

// TruncateDate keeps the first DateLength runes of a timestamp such as
// "2024-05-01 09:30:00".
func TruncateDate(ts string) string {
	if utf8.RuneCountInString(ts) <= DateLength {
		return ts
	}
	return string([]rune(ts)[:DateLength])
}
