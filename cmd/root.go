package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
	"github.com/JohnChood2/grimdark-scholar/internal/snapshot"
	"github.com/JohnChood2/grimdark-scholar/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "grimdark-scholar",
	Short: "Warhammer 40K lore knowledge base",
	Long:  "Scrapes the Lexicanum wiki, normalizes and classifies articles, and answers lore questions over the collected corpus via Claude.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initStore opens the configured store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// loadCorpus reads the latest processed snapshot, falling back to the store
// when no snapshot file exists.
func loadCorpus(ctx context.Context) (model.Corpus, error) {
	snaps := snapshot.New(cfg.Snapshot.Dir)
	corpus, err := snaps.Load(snapshot.ProcessedLatest)
	if err != nil {
		return nil, err
	}
	if len(corpus) > 0 {
		return corpus, nil
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.ListEntries(ctx)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
