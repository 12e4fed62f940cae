package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

func configStore(driver, dsn string) config.StoreConfig {
	return config.StoreConfig{Driver: driver, DSN: dsn}
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testEntry(url, title string) model.Entry {
	return model.Entry{
		URL:           url,
		Title:         title,
		Content:       "The Emperor protects.",
		Categories:    []string{"Imperium"},
		KeyTerms:      []string{"Emperor"},
		MainCategory:  "Space Marines",
		Infobox:       map[string]string{"Founding": "First"},
		HasInfobox:    true,
		WordCount:     3,
		ContentLength: 21,
		ScrapedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLite_SaveAndListEntries(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	corpus := model.Corpus{
		testEntry("https://wh40k.lexicanum.com/wiki/A", "A"),
		testEntry("https://wh40k.lexicanum.com/wiki/B", "B"),
	}

	saved, err := st.SaveEntries(ctx, corpus)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	got, err := st.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, []string{"Imperium"}, got[0].Categories)
	assert.Equal(t, []string{"Emperor"}, got[0].KeyTerms)
	assert.Equal(t, map[string]string{"Founding": "First"}, got[0].Infobox)
	assert.Equal(t, model.Bucket("Space Marines"), got[0].MainCategory)
	assert.True(t, got[0].HasInfobox)
}

func TestSQLite_SaveEntries_UpsertsByURL(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	url := "https://wh40k.lexicanum.com/wiki/A"
	_, err := st.SaveEntries(ctx, model.Corpus{testEntry(url, "Original")})
	require.NoError(t, err)

	updated := testEntry(url, "Updated")
	updated.Content = "Revised content."
	_, err = st.SaveEntries(ctx, model.Corpus{updated})
	require.NoError(t, err)

	got, err := st.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Updated", got[0].Title)
	assert.Equal(t, "Revised content.", got[0].Content)
}

func TestSQLite_SaveEntries_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	saved, err := st.SaveEntries(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, saved)
}

func TestSQLite_ListEntries_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_LogAndListQuestions(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.LogQuestion(ctx, model.Question{
		Question:   "Who is the Emperor?",
		Answer:     "The Master of Mankind.",
		Confidence: 0.75,
		Sources:    []string{"https://wh40k.lexicanum.com/wiki/Emperor_of_Mankind"},
	})
	require.NoError(t, err)

	questions, err := st.ListQuestions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "Who is the Emperor?", q.Question)
	assert.Equal(t, 0.75, q.Confidence)
	assert.Equal(t, []string{"https://wh40k.lexicanum.com/wiki/Emperor_of_Mankind"}, q.Sources)
	assert.False(t, q.AskedAt.IsZero())
}

func TestSQLite_ListQuestions_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, st.LogQuestion(ctx, model.Question{
			Question: "q",
			Answer:   "a",
			AskedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	questions, err := st.ListQuestions(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), configStore("mongodb", ""))
	assert.Error(t, err)
}

func TestOpen_SQLiteDefault(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "open.db")
	st, err := Open(context.Background(), configStore("", dbPath))
	require.NoError(t, err)
	defer st.Close()
	assert.IsType(t, &SQLiteStore{}, st)
}
