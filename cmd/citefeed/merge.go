package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citefeed/citefeed/internal/config"
	"github.com/citefeed/citefeed/internal/logger"
	"github.com/citefeed/citefeed/internal/merge"
	"github.com/citefeed/citefeed/internal/metrics"
	"github.com/citefeed/citefeed/internal/pipeline"
	"github.com/citefeed/citefeed/internal/storage"
)

var (
	mergeCitations          string
	mergeFaculty            string
	mergeOutput             string
	mergeStrict             bool
	mergeWorkers            int
	mergeClean              bool
	mergeDryRun             bool
	mergeSample             int
	mergeIncludeUnappointed bool
	mergeMetricsFile        string
	mergeIndex              bool
)

func init() {
	addMergeFlags(mergeCmd)
	rootCmd.AddCommand(mergeCmd)
}

// addMergeFlags registers the merge flags on cmd. run shares them.
func addMergeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mergeCitations, "citations", "", "Citation export path or glob (.nt, .nt.gz, .nt.zst)")
	cmd.Flags().StringVar(&mergeFaculty, "faculty", "", "Faculty appointment CSV")
	cmd.Flags().StringVar(&mergeOutput, "output", "", "Directory for author bundles")
	cmd.Flags().BoolVar(&mergeStrict, "strict", false, "Abort on the first malformed statement")
	cmd.Flags().IntVar(&mergeWorkers, "workers", 0, "Concurrent bundle writers (0 = one per CPU)")
	cmd.Flags().BoolVar(&mergeClean, "clean", false, "Remove existing bundles before writing")
	cmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Group and merge but write nothing")
	cmd.Flags().IntVar(&mergeSample, "sample", 0, "Read at most N statement lines")
	cmd.Flags().BoolVar(&mergeIncludeUnappointed, "include-unappointed", false, "Also write bundles for authors without an appointment")
	cmd.Flags().StringVar(&mergeMetricsFile, "metrics-file", "", "Write run metrics in Prometheus textfile format")
	cmd.Flags().BoolVar(&mergeIndex, "index", false, "Rebuild the search index after writing")
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the citation and faculty exports into author bundles",
	Long: `Read the citation statements and the faculty appointments, group the
statements by citation, and write one JSON bundle per appointed author.

Authors who contributed to citations but hold no appointment are left
out unless --include-unappointed is set.

Examples:
  citefeed merge
  citefeed merge --citations 'exports/*.nt.gz' --clean
  citefeed merge --sample 1000 --dry-run --human`,
	Args: cobra.NoArgs,
	RunE: runMergeCmd,
}

// MergeResult is the response for the merge and run commands.
type MergeResult struct {
	Status  string          `json:"status"`
	Stats   *pipeline.Stats `json:"stats"`
	Indexed int             `json:"indexed,omitempty"`
	Metrics string          `json:"metrics_file,omitempty"`
}

func runMergeCmd(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	applyMergeFlags(cmd, cfg)
	log := mustNewLogger(cfg)
	defer log.Sync()

	ctx, cancel := commandContext()
	defer cancel()

	res, err := mergeAndReport(ctx, cfg, log)
	if err != nil {
		exitWithErr("merge failed", err)
	}
	printMergeResult(res)
	return nil
}

// applyMergeFlags overrides config values with flags the user set.
func applyMergeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("citations") {
		cfg.CitationsFile = config.ExpandPath(mergeCitations)
	}
	if flags.Changed("faculty") {
		cfg.FacultyFile = config.ExpandPath(mergeFaculty)
	}
	if flags.Changed("output") {
		cfg.OutputDir = config.ExpandPath(mergeOutput)
	}
	if flags.Changed("strict") {
		cfg.Strict = mergeStrict
	}
	if flags.Changed("workers") {
		cfg.Workers = mergeWorkers
	}
	if flags.Changed("clean") {
		cfg.Clean = mergeClean
	}
	if flags.Changed("include-unappointed") {
		cfg.IncludeUnappointed = mergeIncludeUnappointed
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = config.ExpandPath(mergeMetricsFile)
	}
}

// mergeOptions builds pipeline options from the effective config.
func mergeOptions(cfg *config.Config) pipeline.Options {
	policy := merge.ExcludeUnappointed
	if cfg.IncludeUnappointed {
		policy = merge.IncludeUnappointed
	}
	return pipeline.Options{
		CitationsPath:     cfg.CitationsFile,
		FacultyPath:       cfg.FacultyFile,
		OutputDir:         cfg.OutputDir,
		IdentifierBase:    cfg.IdentifierBase,
		AdminPositionType: cfg.AdminPositionType,
		Policy:            policy,
		Strict:            cfg.Strict,
		Workers:           cfg.Workers,
		Clean:             cfg.Clean,
		DryRun:            mergeDryRun,
		Sample:            mergeSample,
	}
}

// mergeAndReport runs the pipeline, then writes metrics and rebuilds the
// index when asked.
func mergeAndReport(ctx context.Context, cfg *config.Config, log *logger.Logger) (*MergeResult, error) {
	m := metrics.New()
	p, err := pipeline.New(mergeOptions(cfg), log, m)
	if err != nil {
		return nil, err
	}
	stats, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}

	res := &MergeResult{Status: "merged", Stats: stats}
	if stats.DryRun {
		res.Status = "dry-run"
	}
	if err := storage.AppendRun(cfg.HistoryFile, stats); err != nil {
		log.Warn("run not recorded", "path", cfg.HistoryFile, "error", err)
	}
	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("metrics not written", "path", cfg.MetricsFile, "error", err)
		} else {
			res.Metrics = cfg.MetricsFile
		}
	}
	if mergeIndex && !stats.DryRun {
		db := mustOpenDatabase(cfg.IndexDB)
		defer db.Close()
		n, err := db.RebuildFromBundles(cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("rebuilding index: %w", err)
		}
		log.Info("index rebuilt", "path", cfg.IndexDB, "authors", n)
		res.Indexed = n
	}
	return res, nil
}

func printMergeResult(res *MergeResult) {
	if !humanOutput {
		outputJSON(res)
		return
	}
	s := res.Stats
	fmt.Printf("Run %s (%s)\n", s.RunID, s.Duration)
	fmt.Printf("  Lines read:        %d (%d malformed)\n", s.Lines, s.Malformed)
	fmt.Printf("  Citations:         %d\n", s.Citations)
	fmt.Printf("  Faculty:           %d\n", s.FacultyAuthors)
	fmt.Printf("  Excluded authors:  %d\n", s.ExcludedAuthors)
	if s.DryRun {
		fmt.Printf("  Bundles:           %d (dry run, nothing written)\n", s.Bundles)
	} else {
		fmt.Printf("  Bundles written:   %d to %s\n", s.BundlesWritten, s.OutputDir)
	}
	if len(s.InvalidAuthorIDs) > 0 {
		fmt.Printf("  Invalid ids:       %d\n", len(s.InvalidAuthorIDs))
	}
	if res.Indexed > 0 {
		fmt.Printf("  Indexed authors:   %d\n", res.Indexed)
	}
}
