package news

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Storm hits city", "Storm hits the city", 30.0 / 34.0},
		{"Storm hits city", "Election results in", 14.0 / 34.0},
		{"폭우로 도시 침수", "폭우로 도시 침수 피해", 18.0 / 21.0},
		{"abc", "abc", 1.0},
		{"", "", 1.0},
		{"a", "", 0.0},
	}

	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDedupeDropsNearDuplicate(t *testing.T) {
	in := []*Article{
		{Title: "Storm hits city", URL: "urlA"},
		{Title: "Storm hits the city", URL: "urlB"},
		{Title: "Election results in", URL: "urlC"},
	}

	got := Dedupe(in, DefaultSimilarityThreshold, DefaultMaxArticles)

	if len(got) != 2 {
		t.Fatalf("kept %d articles, want 2", len(got))
	}
	if got[0].Title != "Storm hits city" || got[1].Title != "Election results in" {
		t.Errorf("kept %q, %q", got[0].Title, got[1].Title)
	}
}

func TestDedupeIsOrderSensitive(t *testing.T) {
	a := &Article{Title: "Storm hits city"}
	b := &Article{Title: "Storm hits the city"}

	first := Dedupe([]*Article{a, b}, DefaultSimilarityThreshold, DefaultMaxArticles)
	second := Dedupe([]*Article{b, a}, DefaultSimilarityThreshold, DefaultMaxArticles)

	if len(first) != 1 || first[0] != a {
		t.Errorf("forward order kept %v", titles(first))
	}
	if len(second) != 1 || second[0] != b {
		t.Errorf("reverse order kept %v", titles(second))
	}
}

func TestDedupeCapsKeptSet(t *testing.T) {
	var in []*Article
	for i := 0; i < 25; i++ {
		// distinct enough that nothing is a near duplicate
		in = append(in, &Article{Title: fmt.Sprintf("%c%s", 'A'+i, strings.Repeat(string(rune('a'+i)), 8))})
	}

	got := Dedupe(in, DefaultSimilarityThreshold, DefaultMaxArticles)
	if len(got) != DefaultMaxArticles {
		t.Fatalf("kept %d, want %d", len(got), DefaultMaxArticles)
	}
	for i, a := range got {
		if a != in[i] {
			t.Errorf("position %d: order not preserved", i)
		}
	}
}

func TestDedupeKeptTitlesPairwiseBelowThreshold(t *testing.T) {
	in := []*Article{
		{Title: "폭우로 도시 침수"},
		{Title: "폭우로 도시 침수 피해"},
		{Title: "폭우로 도시 침수 피해 확산"},
		{Title: "총선 결과 발표"},
		{Title: "총선 결과 발표됨"},
		{Title: "주가 급락"},
	}

	kept := Dedupe(in, DefaultSimilarityThreshold, DefaultMaxArticles)

	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if s := Similarity(kept[i].Title, kept[j].Title); s > DefaultSimilarityThreshold {
				t.Errorf("kept %q and %q with similarity %v", kept[i].Title, kept[j].Title, s)
			}
		}
	}

	keptSet := map[*Article]bool{}
	for _, a := range kept {
		keptSet[a] = true
	}
	for _, a := range in {
		if keptSet[a] {
			continue
		}
		rejected := false
		for _, k := range kept {
			if Similarity(a.Title, k.Title) > DefaultSimilarityThreshold {
				rejected = true
			}
		}
		if !rejected {
			t.Errorf("%q was dropped without a near duplicate in the kept set", a.Title)
		}
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	in := []*Article{
		{Title: "Storm hits city"},
		{Title: "Storm hits the city"},
		{Title: "Election results in"},
	}
	once := Dedupe(in, DefaultSimilarityThreshold, DefaultMaxArticles)
	twice := Dedupe(once, DefaultSimilarityThreshold, DefaultMaxArticles)

	if strings.Join(titles(once), "|") != strings.Join(titles(twice), "|") {
		t.Errorf("once=%v twice=%v", titles(once), titles(twice))
	}
}

func TestFilterShort(t *testing.T) {
	long := &Article{Title: "long", Content: strings.Repeat("가", 50)}
	short := &Article{Title: "short", Content: strings.Repeat("x", 40)}
	empty := &Article{Title: "empty"}

	kept, dropped := FilterShort([]*Article{short, long, nil, empty}, MinContentRunes)
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if len(kept) != 1 || kept[0] != long {
		t.Errorf("kept = %v", titles(kept))
	}
}

func TestHasContentCountsRunes(t *testing.T) {
	// 49 Hangul syllables are 147 bytes but still below the threshold
	a := &Article{Content: strings.Repeat("뉴", 49)}
	if a.HasContent(MinContentRunes) {
		t.Error("49 runes should not meet the threshold")
	}
	a.Content += "스"
	if !a.HasContent(MinContentRunes) {
		t.Error("50 runes should meet the threshold")
	}
}

func TestTruncateDate(t *testing.T) {
	cases := map[string]string{
		"2024-05-01 09:30:00": "2024-05-01",
		"2024-05-01":          "2024-05-01",
		"2024":                "2024",
		"":                    "",
	}
	for in, want := range cases {
		if got := TruncateDate(in); got != want {
			t.Errorf("TruncateDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func titles(as []*Article) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Title
	}
	return out
}
