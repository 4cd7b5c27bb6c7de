package search

import (
	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Link model.Link `json:"link"`
	// MatchedIndexes are byte offsets into Haystack(Link).
	MatchedIndexes []int `json:"matchedIndexes"`
	Score          int   `json:"score"`
}

// Haystack is the text a link is matched against: its name, then its
// category.
func Haystack(l model.Link) string {
	return l.Name + " " + l.Category
}

// linkHaystacks implements fuzzy.Source for a link slice.
type linkHaystacks []model.Link

func (lh linkHaystacks) String(i int) string {
	return Haystack(lh[i])
}

func (lh linkHaystacks) Len() int {
	return len(lh)
}

// FuzzySearchLinks searches links by name and category using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchLinks(links []model.Link, query string) []SearchResult {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, linkHaystacks(links))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Link:           links[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
