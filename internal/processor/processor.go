// Package processor normalizes raw scraped entries: cleans text, extracts
// key terms against a fixed vocabulary, and assigns exactly one main
// category bucket per entry.
package processor

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// Processor enriches crawled entries. The vocabulary and rule table are
// injected so tests and operators can substitute them without touching the
// scoring or classification logic.
type Processor struct {
	vocab       Vocabulary
	rules       Rules
	concurrency int
}

// New creates a Processor from config, falling back to the built-in
// vocabulary and rules when no override files are configured.
func New(cfg config.ProcessorConfig) (*Processor, error) {
	vocab := DefaultVocabulary()
	if cfg.VocabularyFile != "" {
		v, err := LoadVocabulary(cfg.VocabularyFile)
		if err != nil {
			return nil, err
		}
		vocab = v
	}

	rules := DefaultRules()
	if cfg.RulesFile != "" {
		r, err := LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = r
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Processor{vocab: vocab, rules: rules, concurrency: concurrency}, nil
}

// NewWithTables creates a Processor with explicit tables (tests).
func NewWithTables(vocab Vocabulary, rules Rules) *Processor {
	return &Processor{vocab: vocab, rules: rules, concurrency: 1}
}

// Vocabulary returns the active vocabulary.
func (p *Processor) Vocabulary() Vocabulary {
	return p.vocab
}

// Rules returns the active rule table.
func (p *Processor) Rules() Rules {
	return p.rules
}

// Process enriches a single entry: cleans title and content, extracts key
// terms, assigns the main category, and stamps processing metadata.
func (p *Processor) Process(entry model.Entry) (model.Entry, error) {
	if entry.URL == "" {
		return model.Entry{}, eris.New("processor: entry has no url")
	}

	entry.Content = CleanText(entry.Content)
	entry.Title = CleanText(entry.Title)
	entry.KeyTerms = p.vocab.ExtractKeyTerms(entry.Content)
	entry.MainCategory = p.rules.Categorize(entry.Title, entry.Content, entry.Categories)
	entry.ContentLength = len(entry.Content)
	entry.HasInfobox = entry.Infobox != nil
	entry.ProcessedAt = time.Now().UTC()

	return entry, nil
}

// ProcessBatch enriches entries with bounded concurrency while preserving
// input order. A single entry's failure is logged and that entry dropped;
// the batch never aborts. Callers compare input and output counts to detect
// partial loss.
func (p *Processor) ProcessBatch(entries []model.Entry) []model.Entry {
	if len(entries) == 0 {
		return nil
	}

	results := make([]*model.Entry, len(entries))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, entry := range entries {
		g.Go(func() error {
			processed, err := p.Process(entry)
			if err != nil {
				zap.L().Error("processing entry failed",
					zap.String("url", entry.URL),
					zap.Error(err),
				)
				return nil // don't abort the batch on individual failure
			}
			results[i] = &processed
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.Entry, 0, len(entries))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}

	zap.L().Info("batch processed",
		zap.Int("in", len(entries)),
		zap.Int("out", len(out)),
	)

	return out
}
