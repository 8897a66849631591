package news

import (
	"github.com/pmezard/go-difflib/difflib"
)

const (
	DefaultSimilarityThreshold = 0.85
	DefaultMaxArticles         = 10
)

// Similarity returns the Ratcliff/Obershelp ratio 2*M/T of two titles,
// computed over runes. Identical strings score 1.0.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

// IsNearDuplicate reports whether two titles are more similar than threshold.
func IsNearDuplicate(a, b string, threshold float64) bool {
	return Similarity(a, b) > threshold
}

// Dedupe keeps articles in input order, skipping any whose title is a near
// duplicate of an already kept title, and stops once max articles are kept.
// The first occurrence wins, so the result depends on input order.
// A max of zero or less disables the cap.
func Dedupe(articles []*Article, threshold float64, max int) []*Article {
	kept := make([]*Article, 0, len(articles))
	for _, candidate := range articles {
		if max > 0 && len(kept) >= max {
			break
		}
		if candidate == nil {
			continue
		}

		duplicate := false
		for _, k := range kept {
			if IsNearDuplicate(candidate.Title, k.Title, threshold) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
