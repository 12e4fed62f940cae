package processor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

func TestProcess(t *testing.T) {
	p := NewWithTables(DefaultVocabulary(), DefaultRules())

	entry := model.Entry{
		URL:     "https://wh40k.lexicanum.com/wiki/Ultramarines",
		Title:   "  Ultramarines[edit] ",
		Content: "A Space Marine  chapter[1] loyal to the Emperor.",
		Infobox: map[string]string{"Founding": "First"},
	}

	got, err := p.Process(entry)
	require.NoError(t, err)

	assert.Equal(t, "Ultramarines", got.Title)
	assert.Equal(t, "A Space Marine chapter loyal to the Emperor.", got.Content)
	assert.Equal(t, []string{"Space Marine", "Emperor", "Chapter"}, got.KeyTerms)
	assert.Equal(t, model.Bucket("Space Marines"), got.MainCategory)
	assert.Equal(t, len(got.Content), got.ContentLength)
	assert.True(t, got.HasInfobox)
	assert.False(t, got.ProcessedAt.IsZero())
}

func TestProcess_NoURL(t *testing.T) {
	p := NewWithTables(DefaultVocabulary(), DefaultRules())

	_, err := p.Process(model.Entry{Title: "Orphan"})
	assert.Error(t, err)
}

func TestProcessBatch_PreservesOrderAndDropsFailures(t *testing.T) {
	p := NewWithTables(DefaultVocabulary(), DefaultRules())
	p.concurrency = 4

	entries := make([]model.Entry, 0, 10)
	for i := 0; i < 10; i++ {
		e := model.Entry{
			URL:     fmt.Sprintf("https://wh40k.lexicanum.com/wiki/Page_%d", i),
			Title:   fmt.Sprintf("Page %d", i),
			Content: "content",
		}
		if i == 3 || i == 7 {
			e.URL = "" // forces a per-entry failure
		}
		entries = append(entries, e)
	}

	out := p.ProcessBatch(entries)
	require.Len(t, out, 8)

	var titles []string
	for _, e := range out {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{
		"Page 0", "Page 1", "Page 2", "Page 4",
		"Page 5", "Page 6", "Page 8", "Page 9",
	}, titles)
}

func TestProcessBatch_Empty(t *testing.T) {
	p := NewWithTables(DefaultVocabulary(), DefaultRules())
	assert.Nil(t, p.ProcessBatch(nil))
}

func TestNew_DefaultTables(t *testing.T) {
	p, err := New(config.ProcessorConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultVocabulary(), p.Vocabulary())
	assert.Equal(t, DefaultRules(), p.Rules())
}

func TestNew_MissingOverrideFile(t *testing.T) {
	_, err := New(config.ProcessorConfig{RulesFile: "does-not-exist.yaml"})
	assert.Error(t, err)
}
