package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/crawler"
	"github.com/JohnChood2/grimdark-scholar/internal/snapshot"
)

var (
	crawlURL      string
	crawlCategory string
	crawlSeed     bool
	crawlMaxPages int
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl pages without processing",
	Long:  "Fetches a single article, a category listing, or the built-in seed set, and writes a raw snapshot. Use the process command to normalize the result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c, err := crawler.New(cfg.Crawler)
		if err != nil {
			return err
		}
		sess := crawler.NewSession(c.Delay())

		maxPages := crawlMaxPages
		if maxPages == 0 {
			maxPages = cfg.Crawler.MaxPages
		}

		switch {
		case crawlURL != "":
			if _, err := c.Fetch(ctx, sess, crawlURL); err != nil {
				return err
			}
		case crawlCategory != "":
			if _, err := c.CrawlCategory(ctx, sess, cfg.Crawler.BaseURL+crawlCategory, maxPages); err != nil {
				return err
			}
		case crawlSeed:
			for _, page := range crawler.KeyPages() {
				if _, err := c.Fetch(ctx, sess, page); err != nil {
					return err
				}
			}
			for _, cat := range crawler.MainCategories() {
				zap.L().Info("crawling category", zap.String("category", cat.Name))
				if _, err := c.CrawlCategory(ctx, sess, cfg.Crawler.BaseURL+cat.Path, maxPages); err != nil {
					return err
				}
			}
		default:
			return cmd.Help()
		}

		snaps := snapshot.New(cfg.Snapshot.Dir)
		path, err := snaps.Save(sess.Entries(), snapshot.TimestampedName(snapshot.RawPrefix))
		if err != nil {
			return err
		}

		return printJSON(map[string]any{
			"snapshot":  path,
			"attempted": sess.Attempted(),
			"succeeded": sess.Succeeded(),
		})
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlURL, "url", "", "single article URL to fetch")
	crawlCmd.Flags().StringVar(&crawlCategory, "category", "", "category listing path, e.g. /wiki/Category:Orks")
	crawlCmd.Flags().BoolVar(&crawlSeed, "seed", false, "crawl the built-in key pages and main categories")
	crawlCmd.Flags().IntVar(&crawlMaxPages, "max-pages", 0, "max articles per category (default from config)")
	crawlCmd.MarkFlagsMutuallyExclusive("url", "category", "seed")
	rootCmd.AddCommand(crawlCmd)
}
