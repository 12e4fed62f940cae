package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lore_entries (
	id             TEXT PRIMARY KEY,
	url            TEXT NOT NULL UNIQUE,
	title          TEXT NOT NULL,
	content        TEXT NOT NULL,
	categories     TEXT,
	links          TEXT,
	images         TEXT,
	infobox        TEXT,
	has_infobox    INTEGER NOT NULL DEFAULT 0,
	word_count     INTEGER NOT NULL DEFAULT 0,
	key_terms      TEXT,
	main_category  TEXT,
	content_length INTEGER NOT NULL DEFAULT 0,
	scraped_at     DATETIME,
	processed_at   DATETIME,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS questions (
	id         TEXT PRIMARY KEY,
	question   TEXT NOT NULL,
	answer     TEXT NOT NULL,
	confidence REAL NOT NULL DEFAULT 0,
	sources    TEXT,
	asked_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_lore_entries_url ON lore_entries(url);
CREATE INDEX IF NOT EXISTS idx_lore_entries_main_category ON lore_entries(main_category);
CREATE INDEX IF NOT EXISTS idx_questions_asked_at ON questions(asked_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveEntries upserts the corpus by URL inside a single transaction and
// returns the number of entries written.
func (s *SQLiteStore) SaveEntries(ctx context.Context, corpus model.Corpus) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lore_entries
			(id, url, title, content, categories, links, images, infobox, has_infobox,
			 word_count, key_terms, main_category, content_length, scraped_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			categories = excluded.categories,
			links = excluded.links,
			images = excluded.images,
			infobox = excluded.infobox,
			has_infobox = excluded.has_infobox,
			word_count = excluded.word_count,
			key_terms = excluded.key_terms,
			main_category = excluded.main_category,
			content_length = excluded.content_length,
			scraped_at = excluded.scraped_at,
			processed_at = excluded.processed_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	saved := 0
	for _, e := range corpus {
		row, err := entryRow(e)
		if err != nil {
			return saved, err
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), e.URL, e.Title, e.Content,
			row.categories, row.links, row.images, row.infobox, e.HasInfobox,
			e.WordCount, row.keyTerms, string(e.MainCategory), e.ContentLength,
			e.ScrapedAt, nullTime(e.ProcessedAt),
		); err != nil {
			return saved, eris.Wrapf(err, "sqlite: upsert entry %s", e.URL)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return saved, nil
}

// ListEntries returns all entries ordered by insertion time, which preserves
// scrape order for corpora written by a single run.
func (s *SQLiteStore) ListEntries(ctx context.Context) (model.Corpus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, content, categories, links, images, infobox, has_infobox,
		       word_count, key_terms, main_category, content_length, scraped_at, processed_at
		FROM lore_entries ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list entries")
	}
	defer rows.Close()

	var corpus model.Corpus
	for rows.Next() {
		var e model.Entry
		var categories, links, images, infobox, keyTerms sql.NullString
		var mainCategory sql.NullString
		var processedAt sql.NullTime

		if err := rows.Scan(&e.URL, &e.Title, &e.Content, &categories, &links, &images,
			&infobox, &e.HasInfobox, &e.WordCount, &keyTerms, &mainCategory,
			&e.ContentLength, &e.ScrapedAt, &processedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		if err := unmarshalEntryJSON(&e, categories.String, links.String, images.String, infobox.String, keyTerms.String); err != nil {
			return nil, err
		}
		e.MainCategory = model.Bucket(mainCategory.String)
		if processedAt.Valid {
			e.ProcessedAt = processedAt.Time
		}
		corpus = append(corpus, e)
	}
	return corpus, eris.Wrap(rows.Err(), "sqlite: list entries iterate")
}

func (s *SQLiteStore) LogQuestion(ctx context.Context, q model.Question) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.AskedAt.IsZero() {
		q.AskedAt = time.Now().UTC()
	}
	sourcesJSON, err := json.Marshal(q.Sources)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal sources")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id, question, answer, confidence, sources, asked_at) VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.Question, q.Answer, q.Confidence, string(sourcesJSON), q.AskedAt,
	)
	return eris.Wrap(err, "sqlite: insert question")
}

func (s *SQLiteStore) ListQuestions(ctx context.Context, limit int) ([]model.Question, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, answer, confidence, sources, asked_at FROM questions ORDER BY asked_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list questions")
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var sourcesJSON sql.NullString
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Confidence, &sourcesJSON, &q.AskedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan question")
		}
		if sourcesJSON.Valid && sourcesJSON.String != "" {
			if err := json.Unmarshal([]byte(sourcesJSON.String), &q.Sources); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal sources")
			}
		}
		questions = append(questions, q)
	}
	return questions, eris.Wrap(rows.Err(), "sqlite: list questions iterate")
}

// helpers

type jsonRow struct {
	categories, links, images, infobox, keyTerms string
}

// entryRow marshals the slice and map fields of an entry to JSON strings.
func entryRow(e model.Entry) (jsonRow, error) {
	var row jsonRow
	for _, f := range []struct {
		dst *string
		src any
	}{
		{&row.categories, e.Categories},
		{&row.links, e.Links},
		{&row.images, e.Images},
		{&row.infobox, e.Infobox},
		{&row.keyTerms, e.KeyTerms},
	} {
		data, err := json.Marshal(f.src)
		if err != nil {
			return row, eris.Wrapf(err, "store: marshal entry field for %s", e.URL)
		}
		*f.dst = string(data)
	}
	return row, nil
}

func unmarshalEntryJSON(e *model.Entry, categories, links, images, infobox, keyTerms string) error {
	for _, f := range []struct {
		data string
		dst  any
	}{
		{categories, &e.Categories},
		{links, &e.Links},
		{images, &e.Images},
		{infobox, &e.Infobox},
		{keyTerms, &e.KeyTerms},
	} {
		if f.data == "" || f.data == "null" {
			continue
		}
		if err := json.Unmarshal([]byte(f.data), f.dst); err != nil {
			return eris.Wrapf(err, "store: unmarshal entry field for %s", e.URL)
		}
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
