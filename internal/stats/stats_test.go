package stats

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
	"github.com/JohnChood2/grimdark-scholar/internal/processor"
)

func statsCorpus() model.Corpus {
	return model.Corpus{
		{
			URL:           "u1",
			ContentLength: 100,
			MainCategory:  "Space Marines",
			KeyTerms:      []string{"Space Marine", "Emperor"},
			HasInfobox:    true,
		},
		{
			URL:           "u2",
			ContentLength: 200,
			MainCategory:  "Orks",
			KeyTerms:      []string{"Ork"},
		},
		{
			URL:           "u3",
			ContentLength: 300,
			MainCategory:  "Space Marines",
			KeyTerms:      []string{"Space Marine", "Chapter"},
			HasInfobox:    true,
		},
	}
}

func TestCompute(t *testing.T) {
	s := Compute(statsCorpus(), processor.DefaultVocabulary(), 10)

	assert.Equal(t, 3, s.TotalEntries)
	assert.Equal(t, 600, s.TotalContentLength)
	assert.InDelta(t, 200.0, s.AvgContentLength, 1e-9)
	assert.Equal(t, 2, s.EntriesWithInfobox)
	assert.Equal(t, map[model.Bucket]int{
		"Space Marines": 2,
		"Orks":          1,
	}, s.CategoryDistribution)
}

func TestCompute_TopTermsOrder(t *testing.T) {
	s := Compute(statsCorpus(), processor.DefaultVocabulary(), 10)

	// Space Marine leads on count; the singletons tie and fall back to
	// vocabulary order (Ork before Emperor before Chapter).
	require.Len(t, s.TopTerms, 4)
	assert.Equal(t, model.TermCount{Term: "Space Marine", Count: 2}, s.TopTerms[0])
	assert.Equal(t, model.TermCount{Term: "Ork", Count: 1}, s.TopTerms[1])
	assert.Equal(t, model.TermCount{Term: "Emperor", Count: 1}, s.TopTerms[2])
	assert.Equal(t, model.TermCount{Term: "Chapter", Count: 1}, s.TopTerms[3])
}

func TestCompute_TopTermsTruncated(t *testing.T) {
	s := Compute(statsCorpus(), processor.DefaultVocabulary(), 2)
	require.Len(t, s.TopTerms, 2)
	assert.Equal(t, "Space Marine", s.TopTerms[0].Term)
}

func TestCompute_EmptyCorpus(t *testing.T) {
	s := Compute(nil, processor.DefaultVocabulary(), 10)

	assert.Equal(t, 0, s.TotalEntries)
	assert.Equal(t, 0.0, s.AvgContentLength)
	assert.NotNil(t, s.CategoryDistribution)
	assert.Empty(t, s.CategoryDistribution)
	assert.Empty(t, s.TopTerms)
}

func TestCompute_MissingCategoryFallsBack(t *testing.T) {
	corpus := model.Corpus{{URL: "u1", ContentLength: 10}}
	s := Compute(corpus, processor.DefaultVocabulary(), 10)
	assert.Equal(t, 1, s.CategoryDistribution[model.BucketGeneral])
}

func TestWriteXLSX(t *testing.T) {
	s := Compute(statsCorpus(), processor.DefaultVocabulary(), 10)
	path := filepath.Join(t.TempDir(), "stats.xlsx")

	require.NoError(t, WriteXLSX(s, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)
	assert.Equal(t, "Summary", f.Sheets[0].Name)
	assert.Equal(t, "Categories", f.Sheets[1].Name)
	assert.Equal(t, "Top Terms", f.Sheets[2].Name)

	// Categories sheet: header plus two buckets, count descending.
	catRows := f.Sheets[1].Rows
	require.Len(t, catRows, 3)
	assert.Equal(t, "Space Marines", catRows[1].Cells[0].Value)
	assert.Equal(t, "2", catRows[1].Cells[1].Value)
	assert.Equal(t, "Orks", catRows[2].Cells[0].Value)
}
