// Package stats aggregates a corpus into category distribution, term
// frequency ranking, and content-length statistics. All operations are pure
// reads over an immutable corpus snapshot.
package stats

import (
	"sort"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
	"github.com/JohnChood2/grimdark-scholar/internal/processor"
)

// Compute aggregates the corpus. TopTerms is sorted by count descending with
// ties broken by vocabulary order, then truncated to topN.
func Compute(corpus model.Corpus, vocab processor.Vocabulary, topN int) model.Stats {
	s := model.Stats{
		CategoryDistribution: make(map[model.Bucket]int),
	}
	if len(corpus) == 0 {
		return s
	}

	termCounts := make(map[string]int)
	for _, entry := range corpus {
		s.TotalEntries++
		s.TotalContentLength += entry.ContentLength
		cat := entry.MainCategory
		if cat == "" {
			cat = model.BucketGeneral
		}
		s.CategoryDistribution[cat]++
		for _, term := range entry.KeyTerms {
			termCounts[term]++
		}
		if entry.HasInfobox {
			s.EntriesWithInfobox++
		}
	}
	s.AvgContentLength = float64(s.TotalContentLength) / float64(s.TotalEntries)

	terms := make([]model.TermCount, 0, len(termCounts))
	for term, count := range termCounts {
		terms = append(terms, model.TermCount{Term: term, Count: count})
	}
	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return vocab.Index(terms[i].Term) < vocab.Index(terms[j].Term)
	})
	if topN > 0 && len(terms) > topN {
		terms = terms[:topN]
	}
	s.TopTerms = terms

	return s
}
