package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/processor"
	"github.com/JohnChood2/grimdark-scholar/internal/stats"
)

var statsXLSX string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report corpus statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		corpus, err := loadCorpus(ctx)
		if err != nil {
			return err
		}

		proc, err := processor.New(cfg.Processor)
		if err != nil {
			return err
		}
		s := stats.Compute(corpus, proc.Vocabulary(), cfg.Stats.TopTerms)

		if statsXLSX != "" {
			if err := stats.WriteXLSX(s, statsXLSX); err != nil {
				return err
			}
			zap.L().Info("stats workbook written", zap.String("path", statsXLSX))
		}

		return printJSON(s)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsXLSX, "xlsx", "", "also write an xlsx workbook to this path")
	rootCmd.AddCommand(statsCmd)
}
