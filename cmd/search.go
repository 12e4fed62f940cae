package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/JohnChood2/grimdark-scholar/internal/retrieval"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		corpus, err := loadCorpus(ctx)
		if err != nil {
			return err
		}

		results := retrieval.Search(query, corpus, cfg.Search)
		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}

		return printJSON(map[string]any{
			"query":   query,
			"count":   len(results),
			"results": results,
		})
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "max results to return")
	rootCmd.AddCommand(searchCmd)
}
