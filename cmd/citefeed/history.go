package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citefeed/citefeed/internal/pipeline"
	"github.com/citefeed/citefeed/internal/storage"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent merge runs",
	Long: `Show summaries of recent merge runs, newest first.

Every merge appends its summary to the history file (history_file in the
config, default <data_dir>/runs.jsonl).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	runs, err := storage.ReadRuns(cfg.HistoryFile)
	if err != nil {
		exitWithError(ExitDataError, "reading history: %v", err)
	}
	runs = storage.LastRuns(runs, historyLimit)

	if !humanOutput {
		if runs == nil {
			runs = []pipeline.Stats{}
		}
		outputJSON(runs)
		return nil
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}
	for _, r := range runs {
		mode := ""
		if r.DryRun {
			mode = " (dry run)"
		}
		fmt.Printf("%s  %s%s  %s\n", r.Started.Local().Format("2006-01-02 15:04"), r.RunID, mode, r.Duration)
		fmt.Printf("  citations %d, faculty %d, bundles %d written, %d excluded, %d malformed\n",
			r.Citations, r.FacultyAuthors, r.BundlesWritten, r.ExcludedAuthors, r.Malformed)
	}
	return nil
}
