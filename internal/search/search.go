package search

import (
	"path"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/folio/internal/model"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Item           model.MediaItem
	Text           string // the string that was matched
	MatchedIndexes []int
	Score          int
}

// itemLabels implements fuzzy.Source over gallery items.
type itemLabels []model.MediaItem

func (il itemLabels) String(i int) string {
	return Label(il[i])
}

func (il itemLabels) Len() int {
	return len(il)
}

// Label returns the text an item is searched and listed by: its caption, or
// the base name of its source when it has none.
func Label(item model.MediaItem) string {
	if item.Caption != "" {
		return item.Caption
	}
	return path.Base(item.Source())
}

// FuzzySearchItems searches gallery items by caption using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchItems(items []model.MediaItem, query string) []SearchResult {
	if query == "" {
		return nil
	}

	source := itemLabels(items)
	matches := fuzzy.FindFrom(query, source)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Item:           source[m.Index],
			Text:           m.Str,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
