package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/JohnChood2/grimdark-scholar/internal/db"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// entryColumns lists lore_entries columns in bulk-upsert order.
var entryColumns = []string{
	"id", "url", "title", "content", "categories", "links", "images", "infobox",
	"has_infobox", "word_count", "key_terms", "main_category", "content_length",
	"scraped_at", "processed_at",
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool; tests use this with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lore_entries (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	url            TEXT NOT NULL UNIQUE,
	title          TEXT NOT NULL,
	content        TEXT NOT NULL,
	categories     JSONB,
	links          JSONB,
	images         JSONB,
	infobox        JSONB,
	has_infobox    BOOLEAN NOT NULL DEFAULT false,
	word_count     INTEGER NOT NULL DEFAULT 0,
	key_terms      JSONB,
	main_category  TEXT,
	content_length INTEGER NOT NULL DEFAULT 0,
	scraped_at     TIMESTAMPTZ,
	processed_at   TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS questions (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	question   TEXT NOT NULL,
	answer     TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	sources    JSONB,
	asked_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_lore_entries_url ON lore_entries(url);
CREATE INDEX IF NOT EXISTS idx_lore_entries_main_category ON lore_entries(main_category);
CREATE INDEX IF NOT EXISTS idx_questions_asked_at ON questions(asked_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveEntries bulk-upserts the corpus by URL via a temp table and COPY.
func (s *PostgresStore) SaveEntries(ctx context.Context, corpus model.Corpus) (int, error) {
	if len(corpus) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(corpus))
	for _, e := range corpus {
		row, err := entryRow(e)
		if err != nil {
			return 0, err
		}
		rows = append(rows, []any{
			uuid.New().String(), e.URL, e.Title, e.Content,
			[]byte(row.categories), []byte(row.links), []byte(row.images), []byte(row.infobox),
			e.HasInfobox, e.WordCount, []byte(row.keyTerms), string(e.MainCategory),
			e.ContentLength, e.ScrapedAt, nullTime(e.ProcessedAt),
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "lore_entries",
		Columns:      entryColumns,
		ConflictKeys: []string{"url"},
		UpdateCols: []string{
			"title", "content", "categories", "links", "images", "infobox",
			"has_infobox", "word_count", "key_terms", "main_category",
			"content_length", "scraped_at", "processed_at",
		},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: save entries")
	}
	return int(n), nil
}

func (s *PostgresStore) ListEntries(ctx context.Context) (model.Corpus, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT url, title, content, categories, links, images, infobox, has_infobox,
		       word_count, key_terms, main_category, content_length, scraped_at, processed_at
		FROM lore_entries ORDER BY created_at ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list entries")
	}
	defer rows.Close()

	var corpus model.Corpus
	for rows.Next() {
		var e model.Entry
		var categories, links, images, infobox, keyTerms []byte
		var mainCategory *string
		var processedAt *time.Time

		if err := rows.Scan(&e.URL, &e.Title, &e.Content, &categories, &links, &images,
			&infobox, &e.HasInfobox, &e.WordCount, &keyTerms, &mainCategory,
			&e.ContentLength, &e.ScrapedAt, &processedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		if err := unmarshalEntryJSON(&e, string(categories), string(links), string(images), string(infobox), string(keyTerms)); err != nil {
			return nil, err
		}
		if mainCategory != nil {
			e.MainCategory = model.Bucket(*mainCategory)
		}
		if processedAt != nil {
			e.ProcessedAt = *processedAt
		}
		corpus = append(corpus, e)
	}
	return corpus, eris.Wrap(rows.Err(), "postgres: list entries iterate")
}

func (s *PostgresStore) LogQuestion(ctx context.Context, q model.Question) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.AskedAt.IsZero() {
		q.AskedAt = time.Now().UTC()
	}
	sourcesJSON, err := json.Marshal(q.Sources)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal sources")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO questions (id, question, answer, confidence, sources, asked_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		q.ID, q.Question, q.Answer, q.Confidence, sourcesJSON, q.AskedAt,
	)
	return eris.Wrap(err, "postgres: insert question")
}

func (s *PostgresStore) ListQuestions(ctx context.Context, limit int) ([]model.Question, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, question, answer, confidence, sources, asked_at FROM questions ORDER BY asked_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list questions")
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var sourcesJSON []byte
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Confidence, &sourcesJSON, &q.AskedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan question")
		}
		if len(sourcesJSON) > 0 {
			if err := json.Unmarshal(sourcesJSON, &q.Sources); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal sources")
			}
		}
		questions = append(questions, q)
	}
	return questions, eris.Wrap(rows.Err(), "postgres: list questions iterate")
}
