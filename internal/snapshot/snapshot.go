// Package snapshot persists corpus snapshots as human-readable JSON files.
// A snapshot is written whole and replaced wholesale on each processing run;
// callers wanting history vary the snapshot name.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// ProcessedLatest is the conventional name of the most recent processed
// corpus; the retrieval and statistics commands read it by default.
const ProcessedLatest = "processed_data_latest.json"

// RawPrefix names raw (unprocessed) scrape snapshots.
const RawPrefix = "lexicanum_data"

// Dir stores snapshots under a single directory.
type Dir struct {
	dir string
}

// New creates a snapshot store rooted at dir.
func New(dir string) *Dir {
	return &Dir{dir: dir}
}

// Save writes the corpus to the named snapshot, overwriting any previous
// contents in full. Returns the file path.
func (d *Dir) Save(corpus model.Corpus, name string) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "snapshot: create dir %s", d.dir)
	}

	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "snapshot: marshal corpus")
	}

	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "snapshot: write %s", path)
	}

	zap.L().Info("snapshot saved",
		zap.String("path", path),
		zap.Int("entries", len(corpus)),
	)
	return path, nil
}

// TimestampedName builds a snapshot name from a prefix and the current time.
func TimestampedName(prefix string) string {
	return prefix + "_" + time.Now().Format("20060102_150405") + ".json"
}

// Load reads the named snapshot. A missing file is the "no data available"
// condition and returns an empty corpus without error; a corrupt file is an
// error for the caller to surface.
func (d *Dir) Load(name string) (model.Corpus, error) {
	path := filepath.Join(d.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("snapshot does not exist", zap.String("path", path))
			return nil, nil
		}
		return nil, eris.Wrapf(err, "snapshot: read %s", path)
	}

	var corpus model.Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, eris.Wrapf(err, "snapshot: parse %s", path)
	}

	zap.L().Info("snapshot loaded",
		zap.String("path", path),
		zap.Int("entries", len(corpus)),
	)
	return corpus, nil
}
