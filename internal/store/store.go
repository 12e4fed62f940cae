// Package store persists processed lore entries and logged questions behind a
// driver-agnostic interface. SQLite is the default; postgres serves shared
// deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// Store defines the persistence interface for the lore pipeline.
type Store interface {
	// Entries
	SaveEntries(ctx context.Context, corpus model.Corpus) (int, error)
	ListEntries(ctx context.Context) (model.Corpus, error)

	// Question log
	LogQuestion(ctx context.Context, q model.Question) error
	ListQuestions(ctx context.Context, limit int) ([]model.Question, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DSN)
	case "postgres":
		return NewPostgres(ctx, cfg.DSN, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
