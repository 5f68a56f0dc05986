package main

import (
	"github.com/spf13/cobra"

	"github.com/citefeed/citefeed/internal/sparql"
)

func init() {
	addMergeFlags(runCmd)
	runCmd.Flags().BoolVar(&fetchTest, "test", false, "Limit query results to 20 rows")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch both exports and merge them",
	Long: `Fetch faculty appointments, fetch citations, then merge.

Equivalent to running 'fetch faculty', 'fetch citations' and 'merge' in
order. A failed fetch leaves the previous export in place and stops the
run before merging.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

// RunResult is the response for the run command.
type RunResult struct {
	Fetched []*FetchResult `json:"fetched"`
	*MergeResult
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	applyMergeFlags(cmd, cfg)
	log := mustNewLogger(cfg)
	defer log.Sync()

	if err := cfg.ValidateEndpoint(); err != nil {
		exitWithErr("run", err)
	}
	ctx, cancel := commandContext()
	defer cancel()

	client := newClient(cfg, log)
	out := &RunResult{}
	for _, step := range []struct {
		q    sparql.Query
		path string
	}{
		{sparql.FacultyQuery(fetchTest), cfg.FacultyFile},
		{sparql.CitationQuery(fetchTest), cfg.CitationsFile},
	} {
		res, err := fetchExport(ctx, client, step.q, step.path)
		if err != nil {
			exitWithErr("fetch "+step.q.Name, err)
		}
		out.Fetched = append(out.Fetched, res)
	}

	res, err := mergeAndReport(ctx, cfg, log)
	if err != nil {
		exitWithErr("merge failed", err)
	}
	out.MergeResult = res

	if humanOutput {
		for _, f := range out.Fetched {
			printFetchResult(f)
		}
		printMergeResult(res)
	} else {
		outputJSON(out)
	}
	return nil
}
