// Package retrieval scores corpus entries against a query. It backs two
// operations: question-context ranking, which builds the bounded context
// window handed to the answer generator, and free-text search over the
// corpus. The weight tables are heuristic and overridable via config.
package retrieval

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
)

// DefaultRankConfig returns the question-context ranking weights.
func DefaultRankConfig() config.RankConfig {
	return config.RankConfig{
		TitleWeight:       20,
		KeyTermWeight:     15,
		ContentWordWeight: 2,
		CategoryWeight:    10,
		PhraseBonus:       25,
		TopEntries:        3,
		SnippetLen:        1000,
		ContextLimit:      3000,
	}
}

// DefaultSearchConfig returns the free-text search weights.
func DefaultSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		TitleWeight:    10,
		ContentWeight:  5,
		KeyTermWeight:  3,
		CategoryWeight: 2,
	}
}

// ValidateRankConfig checks that a RankConfig is internally consistent.
func ValidateRankConfig(c config.RankConfig) error {
	var errs []string
	for name, w := range map[string]int{
		"title_weight":        c.TitleWeight,
		"key_term_weight":     c.KeyTermWeight,
		"content_word_weight": c.ContentWordWeight,
		"category_weight":     c.CategoryWeight,
		"phrase_bonus":        c.PhraseBonus,
	} {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}
	if c.TopEntries <= 0 {
		errs = append(errs, "top_entries must be > 0")
	}
	if c.SnippetLen <= 0 {
		errs = append(errs, "snippet_len must be > 0")
	}
	if c.ContextLimit <= 0 {
		errs = append(errs, "context_limit must be > 0")
	}
	if len(errs) > 0 {
		return eris.Errorf("retrieval: rank config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateSearchConfig checks that a SearchConfig is internally consistent.
func ValidateSearchConfig(c config.SearchConfig) error {
	var errs []string
	for name, w := range map[string]int{
		"title_weight":    c.TitleWeight,
		"content_weight":  c.ContentWeight,
		"key_term_weight": c.KeyTermWeight,
		"category_weight": c.CategoryWeight,
	} {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}
	if len(errs) > 0 {
		return eris.Errorf("retrieval: search config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// tokenize lowercases and splits on whitespace. Both ranking operations
// share this rule.
func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
