package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
	"github.com/JohnChood2/grimdark-scholar/internal/processor"
	"github.com/JohnChood2/grimdark-scholar/internal/snapshot"
)

var processInput string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Normalize a raw snapshot",
	Long:  "Loads a raw crawl snapshot, cleans and classifies every entry, and writes the processed snapshot plus the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		snaps := snapshot.New(cfg.Snapshot.Dir)
		raw, err := snaps.Load(processInput)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			return eris.Errorf("no entries in snapshot %s", processInput)
		}

		proc, err := processor.New(cfg.Processor)
		if err != nil {
			return err
		}
		corpus := model.Corpus(proc.ProcessBatch(raw))

		if _, err := snaps.Save(corpus, snapshot.ProcessedLatest); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		saved, err := st.SaveEntries(ctx, corpus)
		if err != nil {
			return eris.Wrap(err, "save entries")
		}
		zap.L().Info("entries stored", zap.Int("saved", saved))

		return printJSON(map[string]any{
			"in":    len(raw),
			"out":   len(corpus),
			"saved": saved,
		})
	},
}

func init() {
	processCmd.Flags().StringVar(&processInput, "input", "", "raw snapshot file name (required)")
	_ = processCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(processCmd)
}
