package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

func TestSaveAndLoad(t *testing.T) {
	d := New(t.TempDir())
	corpus := model.Corpus{
		{URL: "u1", Title: "Orks", Content: "Waaagh!"},
		{URL: "u2", Title: "Eldar", Content: "Doomed."},
	}

	path, err := d.Save(corpus, ProcessedLatest)
	require.NoError(t, err)
	assert.FileExists(t, path)

	got, err := d.Load(ProcessedLatest)
	require.NoError(t, err)
	assert.Equal(t, corpus, got)
}

func TestSave_Overwrites(t *testing.T) {
	d := New(t.TempDir())

	_, err := d.Save(model.Corpus{{URL: "u1"}, {URL: "u2"}}, ProcessedLatest)
	require.NoError(t, err)

	_, err = d.Save(model.Corpus{{URL: "u3"}}, ProcessedLatest)
	require.NoError(t, err)

	got, err := d.Load(ProcessedLatest)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u3", got[0].URL)
}

func TestSave_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	d := New(dir)

	_, err := d.Save(model.Corpus{{URL: "u1"}}, ProcessedLatest)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestLoad_Missing(t *testing.T) {
	d := New(t.TempDir())

	got, err := d.Load("absent.json")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	d := New(dir)
	_, err := d.Load("bad.json")
	assert.Error(t, err)
}

func TestTimestampedName(t *testing.T) {
	name := TimestampedName(RawPrefix)
	assert.True(t, strings.HasPrefix(name, RawPrefix+"_"))
	assert.True(t, strings.HasSuffix(name, ".json"))
}
