package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index from the bundle directory",
	Long: `Rebuild the SQLite search index from the author bundles in the output
directory.

Use this after a merge run without --index, or if the index becomes
corrupted. The index is derived data and can always be rebuilt.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status       string `json:"status"`
	Authors      int    `json:"authors"`
	Publications int    `json:"publications"`
	Path         string `json:"path"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg.IndexDB)
	defer db.Close()

	if _, err := db.RebuildFromBundles(cfg.OutputDir); err != nil {
		exitWithError(ExitDataError, "rebuilding index: %v", err)
	}
	authors, pubs, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "counting index: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt search index with %d authors and %d publications\n", authors, pubs)
	} else {
		outputJSON(RebuildResult{
			Status:       "rebuilt",
			Authors:      authors,
			Publications: pubs,
			Path:         cfg.IndexDB,
		})
	}
	return nil
}
