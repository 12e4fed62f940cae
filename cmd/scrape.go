package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/crawler"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
	"github.com/JohnChood2/grimdark-scholar/internal/processor"
	"github.com/JohnChood2/grimdark-scholar/internal/snapshot"
)

var scrapeMaxPages int

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run the full collection pipeline",
	Long:  "Crawls the key articles and every main faction category, processes the results, and persists both snapshot files and the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if scrapeMaxPages > 0 {
			cfg.Crawler.MaxPages = scrapeMaxPages
		}

		corpus, err := runScrape(ctx, cfg)
		if err != nil {
			return err
		}

		return printJSON(map[string]any{
			"status":  "complete",
			"entries": len(corpus),
		})
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "max articles per category (default from config)")
	rootCmd.AddCommand(scrapeCmd)
}

// runScrape is the full pipeline: crawl seeds and categories, process the
// batch, write the raw and processed snapshots, and upsert the store. The
// serve command reuses it for the scrape endpoint.
func runScrape(ctx context.Context, cfg *config.Config) (model.Corpus, error) {
	c, err := crawler.New(cfg.Crawler)
	if err != nil {
		return nil, err
	}
	sess := crawler.NewSession(c.Delay())

	for _, page := range crawler.KeyPages() {
		if _, err := c.Fetch(ctx, sess, page); err != nil {
			return nil, err
		}
	}

	for _, cat := range crawler.MainCategories() {
		zap.L().Info("crawling category", zap.String("category", cat.Name))
		if _, err := c.CrawlCategory(ctx, sess, cfg.Crawler.BaseURL+cat.Path, cfg.Crawler.MaxPages); err != nil {
			return nil, err
		}
	}

	raw := sess.Entries()
	zap.L().Info("crawl complete",
		zap.Int("attempted", sess.Attempted()),
		zap.Int("succeeded", sess.Succeeded()),
	)

	snaps := snapshot.New(cfg.Snapshot.Dir)
	if _, err := snaps.Save(raw, snapshot.TimestampedName(snapshot.RawPrefix)); err != nil {
		return nil, err
	}

	proc, err := processor.New(cfg.Processor)
	if err != nil {
		return nil, err
	}
	corpus := model.Corpus(proc.ProcessBatch(raw))

	if _, err := snaps.Save(corpus, snapshot.ProcessedLatest); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	saved, err := st.SaveEntries(ctx, corpus)
	if err != nil {
		return nil, eris.Wrap(err, "save entries")
	}
	zap.L().Info("entries stored", zap.Int("saved", saved))

	return corpus, nil
}
