package retrieval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

type scoredEntry struct {
	entry model.Entry
	score int
}

// TopEntries scores every corpus entry against the question and returns the
// top entries by score descending. Zero-score entries are excluded; equal
// scores keep corpus order, which is scrape order.
func TopEntries(question string, corpus model.Corpus, cfg config.RankConfig) []model.Entry {
	questionLower := strings.ToLower(question)
	words := tokenize(question)

	var scored []scoredEntry
	for _, entry := range corpus {
		score := scoreEntry(entry, questionLower, words, cfg)
		if score > 0 {
			scored = append(scored, scoredEntry{entry: entry, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > cfg.TopEntries {
		scored = scored[:cfg.TopEntries]
	}

	out := make([]model.Entry, len(scored))
	for i, s := range scored {
		out[i] = s.entry
	}
	return out
}

// BuildContext concatenates title/snippet blocks for the top entries into a
// context window truncated to the configured limit. The truncation is
// applied to the joined string and may cut the last block mid-content.
// Returns "" when nothing scores above zero.
func BuildContext(question string, corpus model.Corpus, cfg config.RankConfig) string {
	parts := make([]string, 0, cfg.TopEntries)
	for _, entry := range TopEntries(question, corpus, cfg) {
		content := entry.Content
		if len(content) > cfg.SnippetLen {
			content = content[:cfg.SnippetLen]
		}
		parts = append(parts, fmt.Sprintf("Title: %s\nContent: %s...", entry.Title, content))
	}

	context := strings.Join(parts, "\n\n")
	if len(context) > cfg.ContextLimit {
		context = context[:cfg.ContextLimit]
	}
	return context
}

// scoreEntry computes the multi-factor relevance score of one entry.
func scoreEntry(entry model.Entry, questionLower string, words []string, cfg config.RankConfig) int {
	title := strings.ToLower(entry.Title)
	content := strings.ToLower(entry.Content)
	category := strings.ToLower(string(entry.MainCategory))

	score := 0

	// Any question token inside the title.
	for _, w := range words {
		if strings.Contains(title, w) {
			score += cfg.TitleWeight
			break
		}
	}

	// Each key term containing a question token.
	for _, term := range entry.KeyTerms {
		termLower := strings.ToLower(term)
		for _, w := range words {
			if strings.Contains(termLower, w) {
				score += cfg.KeyTermWeight
				break
			}
		}
	}

	// Distinct question tokens present in the content's token set; each
	// overlapping word counts once regardless of repetition.
	contentWords := make(map[string]struct{})
	for _, w := range strings.Fields(content) {
		contentWords[w] = struct{}{}
	}
	for _, w := range words {
		if _, ok := contentWords[w]; ok {
			score += cfg.ContentWordWeight
		}
	}

	// Any question token inside the main category.
	for _, w := range words {
		if strings.Contains(category, w) {
			score += cfg.CategoryWeight
			break
		}
	}

	// Full question appearing verbatim in the content.
	if strings.Contains(content, questionLower) {
		score += cfg.PhraseBonus
	}

	return score
}
