// Package pipeline runs one citation merge: read both exports, group,
// join and write bundles.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/citefeed/citefeed/internal/bundle"
	"github.com/citefeed/citefeed/internal/citation"
	"github.com/citefeed/citefeed/internal/faculty"
	"github.com/citefeed/citefeed/internal/input"
	"github.com/citefeed/citefeed/internal/logger"
	"github.com/citefeed/citefeed/internal/merge"
	"github.com/citefeed/citefeed/internal/metrics"
	"github.com/citefeed/citefeed/internal/ntriples"
	"github.com/citefeed/citefeed/internal/vocab"
)

// Options configures a run.
type Options struct {
	CitationsPath     string // path or glob
	FacultyPath       string
	OutputDir         string
	IdentifierBase    string
	AdminPositionType string
	Policy            merge.Policy
	Strict            bool
	Workers           int
	Clean             bool
	DryRun            bool // group and merge, write nothing
	Sample            int  // read at most this many statement lines
}

// Stats summarizes a run.
type Stats struct {
	RunID               string    `json:"run_id"`
	Started             time.Time `json:"started"`
	InputFiles          []string  `json:"input_files"`
	Lines               int       `json:"lines"`
	Triples             int       `json:"triples"`
	Malformed           int       `json:"malformed"`
	Citations           int       `json:"citations"`
	IndexedAuthors      int       `json:"indexed_authors"`
	FacultyAuthors      int       `json:"faculty_authors"`
	Bundles             int       `json:"bundles"`
	BundlesWritten      int       `json:"bundles_written"`
	Removed             int       `json:"removed,omitempty"`
	ExcludedAuthors     int       `json:"excluded_authors"`
	InvalidAuthorIDs    []string  `json:"invalid_author_ids,omitempty"`
	ContributorFailures int       `json:"contributor_failures"`
	LiteralFailures     int       `json:"literal_failures"`
	RabIDFailures       int       `json:"rab_id_failures"`
	SkippedPredicates   []string  `json:"skipped_predicates"`
	OutputDir           string    `json:"output_dir"`
	DryRun              bool      `json:"dry_run,omitempty"`
	Duration            string    `json:"duration"`
}

// Pipeline runs merges.
type Pipeline struct {
	opts    Options
	log     *logger.Logger
	metrics *metrics.Metrics
	ids     *vocab.Extractor
}

// New validates opts and returns a Pipeline. m may be nil.
func New(opts Options, log *logger.Logger, m *metrics.Metrics) (*Pipeline, error) {
	if opts.CitationsPath == "" {
		return nil, fmt.Errorf("citations input not set")
	}
	if opts.FacultyPath == "" {
		return nil, fmt.Errorf("faculty input not set")
	}
	if opts.OutputDir == "" && !opts.DryRun {
		return nil, fmt.Errorf("output directory not set")
	}
	if opts.IdentifierBase == "" {
		opts.IdentifierBase = vocab.DefaultIdentifierBase
	}
	if opts.AdminPositionType == "" {
		opts.AdminPositionType = vocab.AdminPositionType
	}
	ids, err := vocab.NewExtractor(opts.IdentifierBase)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.New()
	}
	return &Pipeline{opts: opts, log: log, metrics: m, ids: ids}, nil
}

// Run executes the merge. Faculty is read before citations so a bad
// appointment export fails fast.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	started := time.Now()
	stats := &Stats{
		RunID:             uuid.NewString(),
		Started:           started.UTC(),
		OutputDir:         p.opts.OutputDir,
		DryRun:            p.opts.DryRun,
		SkippedPredicates: []string{},
	}
	log := p.log.With("run_id", stats.RunID)
	log.Info("begin merge", "citations", p.opts.CitationsPath, "faculty", p.opts.FacultyPath, "policy", p.opts.Policy.String())

	fac, err := p.readFaculty(log)
	if err != nil {
		return nil, err
	}
	stats.FacultyAuthors = len(fac)

	triples, err := p.readTriples(log, stats)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(triples) == 0 {
		// An empty export is treated as "no data", so existing bundles
		// are left alone and nothing new is written.
		log.Warn("no statements read, nothing written")
		p.finish(log, stats, started)
		return stats, nil
	}

	log.Info("grouping statements", "triples", len(triples))
	cites := citation.NewGrouper(p.ids, log).Group(triples)
	stats.Citations = len(cites.Citations)
	stats.IndexedAuthors = cites.Authors.Len()
	stats.ContributorFailures = cites.ContributorFailures
	stats.LiteralFailures = cites.LiteralFailures
	stats.SkippedPredicates = cites.Skipped
	p.metrics.Citations.Add(float64(stats.Citations))
	p.metrics.StatementsSkipped.WithLabelValues(metrics.ReasonContributor).Add(float64(cites.ContributorFailures))
	p.metrics.StatementsSkipped.WithLabelValues(metrics.ReasonLiteral).Add(float64(cites.LiteralFailures))

	merged := merge.New(p.ids, p.opts.Policy, log).Merge(cites, fac)
	stats.Bundles = len(merged.Bundles)
	stats.ExcludedAuthors = len(merged.Excluded)
	stats.RabIDFailures = merged.RabIDFailures
	p.metrics.AuthorsExcluded.Add(float64(stats.ExcludedAuthors))

	if p.opts.DryRun {
		log.Info("dry run complete, nothing written", "bundles", stats.Bundles)
	} else if err := p.write(ctx, log, merged.Bundles, stats); err != nil {
		return nil, err
	}

	p.finish(log, stats, started)
	return stats, nil
}

func (p *Pipeline) finish(log *logger.Logger, stats *Stats, started time.Time) {
	finished := time.Now()
	stats.Duration = finished.Sub(started).Round(time.Millisecond).String()
	p.metrics.Succeeded(started, finished)
	log.Info("merge complete", "bundles", stats.Bundles, "written", stats.BundlesWritten, "duration", stats.Duration)
}

func (p *Pipeline) readFaculty(log *logger.Logger) (faculty.Index, error) {
	r, err := input.Open(p.opts.FacultyPath)
	if err != nil {
		return nil, fmt.Errorf("opening faculty export: %w", err)
	}
	defer r.Close()
	return faculty.NewBuilder(p.opts.AdminPositionType, log).Build(r)
}

func (p *Pipeline) readTriples(log *logger.Logger, stats *Stats) ([]ntriples.Triple, error) {
	paths, err := input.Expand(p.opts.CitationsPath)
	if err != nil {
		return nil, err
	}
	stats.InputFiles = paths

	c := ntriples.NewCollector(p.opts.Strict, log)
	if p.opts.Sample > 0 {
		log.Info("sampling statements", "limit", p.opts.Sample)
	}
	if _, err := input.ReadLines(paths, p.opts.Sample, c.Add); err != nil {
		return nil, fmt.Errorf("reading statements: %w", err)
	}

	stats.Lines = c.Lines()
	stats.Triples = len(c.Triples())
	stats.Malformed = c.Malformed()
	p.metrics.Lines.Add(float64(stats.Lines))
	p.metrics.StatementsSkipped.WithLabelValues(metrics.ReasonMalformed).Add(float64(stats.Malformed))
	if stats.Malformed > 0 {
		log.Warn("malformed statements skipped", "count", stats.Malformed)
	}
	return c.Triples(), nil
}

func (p *Pipeline) write(ctx context.Context, log *logger.Logger, bundles []*bundle.Bundle, stats *Stats) error {
	w := bundle.NewWriter(p.opts.OutputDir, p.opts.Workers, log)
	if p.opts.Clean {
		n, err := w.Clean()
		if err != nil {
			return err
		}
		stats.Removed = n
		log.Info("removed previous bundles", "count", n)
	}

	log.Info("writing bundles", "count", len(bundles), "dir", p.opts.OutputDir)
	ws, err := w.WriteAll(ctx, bundles)
	if ws != nil {
		stats.BundlesWritten = ws.Written
		stats.InvalidAuthorIDs = ws.Invalid
		p.metrics.BundlesWritten.Add(float64(ws.Written))
	}
	if err != nil {
		return fmt.Errorf("writing bundles: %w", err)
	}
	return nil
}
