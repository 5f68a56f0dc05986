package citation

import (
	"sort"

	"github.com/citefeed/citefeed/internal/logger"
	"github.com/citefeed/citefeed/internal/ntriples"
	"github.com/citefeed/citefeed/internal/vocab"
)

// Result is the output of one grouping pass.
type Result struct {
	Citations map[string]Record // keyed by bracketed subject URI
	Authors   *AuthorIndex

	// Skipped lists predicates that were neither mapped nor the
	// contributor predicate, sorted.
	Skipped []string

	ContributorFailures int
	LiteralFailures     int
}

// Grouper turns triples into citation records.
type Grouper struct {
	ids *vocab.Extractor
	log *logger.Logger
}

// NewGrouper creates a Grouper that derives author ids with ids.
func NewGrouper(ids *vocab.Extractor, log *logger.Logger) *Grouper {
	return &Grouper{ids: ids, log: log}
}

type pending struct {
	subject      string
	record       Record
	contributors []string
	seen         map[string]struct{}
}

func newPending(subject string) *pending {
	return &pending{subject: subject, record: NewRecord(), seen: make(map[string]struct{})}
}

func (p *pending) addContributor(id string) {
	if _, ok := p.seen[id]; ok {
		return
	}
	p.seen[id] = struct{}{}
	p.contributors = append(p.contributors, id)
}

// Group performs a single linear pass over triples. The input is stably
// sorted by subject first, so statement order within a subject decides
// which value wins when a predicate repeats. The caller's slice is not
// modified.
func (g *Grouper) Group(triples []ntriples.Triple) *Result {
	sorted := make([]ntriples.Triple, len(triples))
	copy(sorted, triples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Subject < sorted[j].Subject
	})

	res := &Result{
		Citations: make(map[string]Record),
		Authors:   NewAuthorIndex(),
	}
	skipped := make(map[string]struct{})

	var cur *pending
	flush := func() {
		if cur == nil {
			return
		}
		res.Citations[cur.subject] = cur.record
		for _, author := range cur.contributors {
			res.Authors.Add(author, cur.subject)
		}
	}

	for _, t := range sorted {
		if cur == nil || t.Subject != cur.subject {
			flush()
			cur = newPending(t.Subject)
		}

		if t.Predicate == vocab.ContributorPredicate {
			id, err := g.ids.Extract(t.Object)
			if err != nil {
				res.ContributorFailures++
				g.log.Warn("skipping contributor", "subject", t.Subject, "error", err)
				continue
			}
			cur.addContributor(id)
			continue
		}

		attr, ok := vocab.Lookup(t.Predicate)
		if !ok {
			skipped[t.Predicate] = struct{}{}
			continue
		}
		val, err := ntriples.Normalize(t.Object)
		if err != nil {
			res.LiteralFailures++
			g.log.Warn("skipping attribute value", "subject", t.Subject, "attribute", attr, "error", err)
			continue
		}
		cur.record[attr] = val
	}
	flush()

	res.Skipped = make([]string, 0, len(skipped))
	for p := range skipped {
		res.Skipped = append(res.Skipped, p)
	}
	sort.Strings(res.Skipped)
	if len(res.Skipped) > 0 {
		g.log.Debug("unmapped predicates ignored", "predicates", res.Skipped)
	}
	return res
}
