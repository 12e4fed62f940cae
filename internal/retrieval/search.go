package retrieval

import (
	"sort"
	"strings"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// Search scores every corpus entry against the query as a case-insensitive
// substring and returns all positive-score matches sorted by score
// descending, ties keeping corpus order. MatchedFields reports which of
// title/content/category matched; key-term hits contribute to the score but
// are not a reported field. Result limiting is the caller's responsibility.
func Search(query string, corpus model.Corpus, cfg config.SearchConfig) []model.SearchResult {
	queryLower := strings.ToLower(query)

	var results []model.SearchResult
	for _, entry := range corpus {
		score := 0
		var matched []string

		if strings.Contains(strings.ToLower(entry.Title), queryLower) {
			score += cfg.TitleWeight
			matched = append(matched, "title")
		}
		if strings.Contains(strings.ToLower(entry.Content), queryLower) {
			score += cfg.ContentWeight
			matched = append(matched, "content")
		}
		for _, term := range entry.KeyTerms {
			if strings.Contains(strings.ToLower(term), queryLower) {
				score += cfg.KeyTermWeight
			}
		}
		if strings.Contains(strings.ToLower(string(entry.MainCategory)), queryLower) {
			score += cfg.CategoryWeight
			matched = append(matched, "category")
		}

		if score > 0 {
			results = append(results, model.SearchResult{
				Entry:         entry,
				Score:         score,
				MatchedFields: matched,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
