// Package merge joins grouped citations with the faculty title index.
package merge

import (
	"fmt"
	"strings"

	"github.com/citefeed/citefeed/internal/bundle"
	"github.com/citefeed/citefeed/internal/citation"
	"github.com/citefeed/citefeed/internal/faculty"
	"github.com/citefeed/citefeed/internal/logger"
	"github.com/citefeed/citefeed/internal/vocab"
)

// Policy decides what happens to authors who have citations but no
// appointment in the faculty index.
type Policy int

const (
	// ExcludeUnappointed drops them. This is the default.
	ExcludeUnappointed Policy = iota
	// IncludeUnappointed emits them with empty title lists.
	IncludeUnappointed
)

func (p Policy) String() string {
	switch p {
	case ExcludeUnappointed:
		return "exclude-unappointed"
	case IncludeUnappointed:
		return "include-unappointed"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts the names returned by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclude-unappointed":
		return ExcludeUnappointed, nil
	case "include-unappointed":
		return IncludeUnappointed, nil
	default:
		return 0, fmt.Errorf("unknown unappointed-author policy %q", s)
	}
}

// Result holds the bundles to write, sorted by author.
type Result struct {
	Bundles []*bundle.Bundle

	// Excluded lists indexed authors dropped by ExcludeUnappointed.
	Excluded      []string
	RabIDFailures int
}

// Merger builds bundles.
type Merger struct {
	ids    *vocab.Extractor
	policy Policy
	log    *logger.Logger
}

// New creates a Merger. ids derives rab_id from citation subjects.
func New(ids *vocab.Extractor, policy Policy, log *logger.Logger) *Merger {
	return &Merger{ids: ids, policy: policy, log: log}
}

// Merge produces one bundle per author in fac. Inputs are only read.
func (m *Merger) Merge(cites *citation.Result, fac faculty.Index) *Result {
	res := &Result{}

	authors := fac.Authors()
	var unappointed []string
	for _, a := range cites.Authors.Authors() {
		if _, ok := fac[a]; !ok {
			unappointed = append(unappointed, a)
		}
	}

	switch m.policy {
	case IncludeUnappointed:
		authors = mergeSorted(authors, unappointed)
	default:
		res.Excluded = unappointed
		if len(unappointed) > 0 {
			m.log.Info("authors without appointment excluded", "count", len(unappointed))
		}
	}

	res.Bundles = make([]*bundle.Bundle, 0, len(authors))
	for _, author := range authors {
		titles, ok := fac[author]
		if !ok {
			titles = &faculty.Titles{Admin: []faculty.Title{}, Faculty: []faculty.Title{}}
		}
		res.Bundles = append(res.Bundles, &bundle.Bundle{
			Author:       author,
			Publications: m.publications(author, cites, res),
			Titles:       titles,
		})
	}
	return res
}

func (m *Merger) publications(author string, cites *citation.Result, res *Result) []citation.Record {
	ids := cites.Authors.Citations(author)
	if len(ids) == 0 {
		m.log.Info("no citations for author", "author", author, "count", 0)
		return []citation.Record{}
	}

	pubs := make([]citation.Record, 0, len(ids))
	for _, subject := range ids {
		rec, ok := cites.Citations[subject]
		if !ok {
			m.log.Warn("indexed citation has no record", "author", author, "subject", subject)
			continue
		}
		pub := rec.Clone()
		rabID, err := m.ids.Extract(subject)
		if err != nil {
			res.RabIDFailures++
			m.log.Warn("cannot derive rab_id", "author", author, "error", err)
		}
		pub[bundle.RabIDKey] = rabID
		pubs = append(pubs, pub)
	}
	m.log.Debug("publications merged", "author", author, "count", len(pubs))
	return pubs
}

// mergeSorted merges two sorted, disjoint slices.
func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
