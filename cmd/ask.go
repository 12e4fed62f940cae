package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/answer"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
	"github.com/JohnChood2/grimdark-scholar/pkg/anthropic"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a lore question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question := strings.Join(args, " ")

		corpus, err := loadCorpus(ctx)
		if err != nil {
			return err
		}

		client := anthropic.NewClient(cfg.Anthropic.Key)
		svc := answer.NewService(client, cfg.Anthropic, cfg.Retrieval)

		result, err := svc.Ask(ctx, question, corpus)
		if err != nil {
			return err
		}

		// The question log is best effort; a store failure never loses the
		// answer.
		if st, err := initStore(ctx); err == nil {
			if err := st.LogQuestion(ctx, model.Question{
				Question:   question,
				Answer:     result.Answer,
				Confidence: result.Confidence,
				Sources:    result.Sources,
			}); err != nil {
				zap.L().Warn("question log failed", zap.Error(err))
			}
			st.Close()
		} else {
			zap.L().Warn("question log unavailable", zap.Error(err))
		}

		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
