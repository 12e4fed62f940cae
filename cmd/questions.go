package main

import (
	"github.com/spf13/cobra"
)

var questionsLimit int

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List recently logged questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		questions, err := st.ListQuestions(ctx, questionsLimit)
		if err != nil {
			return err
		}

		return printJSON(map[string]any{
			"count":     len(questions),
			"questions": questions,
		})
	},
}

func init() {
	questionsCmd.Flags().IntVar(&questionsLimit, "limit", 20, "max questions to return")
	rootCmd.AddCommand(questionsCmd)
}
