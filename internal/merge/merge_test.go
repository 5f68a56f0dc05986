package merge

import (
	"reflect"
	"strings"
	"testing"

	"github.com/citefeed/citefeed/internal/bundle"
	"github.com/citefeed/citefeed/internal/citation"
	"github.com/citefeed/citefeed/internal/faculty"
	"github.com/citefeed/citefeed/internal/logger"
	"github.com/citefeed/citefeed/internal/ntriples"
	"github.com/citefeed/citefeed/internal/vocab"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const ind = "http://vivo.brown.edu/individual/"

func extractor(t *testing.T) *vocab.Extractor {
	t.Helper()
	ex, err := vocab.NewExtractor(vocab.DefaultIdentifierBase)
	if err != nil {
		t.Fatal(err)
	}
	return ex
}

func setup(t *testing.T, triples []ntriples.Triple, csvText string) (*citation.Result, faculty.Index) {
	t.Helper()
	cites := citation.NewGrouper(extractor(t), logger.Nop()).Group(triples)
	fac, err := faculty.NewBuilder(vocab.AdminPositionType, logger.Nop()).Build(strings.NewReader(csvText))
	if err != nil {
		t.Fatal(err)
	}
	return cites, fac
}

func TestMergeScenario(t *testing.T) {
	cites, fac := setup(t, []ntriples.Triple{
		{Subject: "<" + ind + "cite1>", Predicate: vocab.RDFSLabel, Object: `"Title A"`},
		{Subject: "<" + ind + "cite1>", Predicate: vocab.ContributorPredicate, Object: "<" + ind + "000012345>"},
	}, "shortid,rank,unit,type\n000012345,Professor,Computer Science,http://vivoweb.org/ontology/core#FacultyPosition\n")

	res := New(extractor(t), ExcludeUnappointed, logger.Nop()).Merge(cites, fac)
	if len(res.Bundles) != 1 {
		t.Fatalf("got %d bundles, want 1", len(res.Bundles))
	}
	b := res.Bundles[0]
	if b.Author != "000012345" {
		t.Errorf("author = %q", b.Author)
	}
	if len(b.Publications) != 1 {
		t.Fatalf("got %d publications, want 1", len(b.Publications))
	}
	pub := b.Publications[0]
	if pub["title"] != "Title A" || pub[bundle.RabIDKey] != "cite1" {
		t.Errorf("publication = title %q rab_id %q", pub["title"], pub[bundle.RabIDKey])
	}
	if want := []faculty.Title{{Rank: "Professor", Unit: "Computer Science"}}; !reflect.DeepEqual(b.Titles.Faculty, want) {
		t.Errorf("faculty titles = %v", b.Titles.Faculty)
	}
	if len(b.Titles.Admin) != 0 || b.Titles.Admin == nil {
		t.Errorf("admin titles = %#v, want empty", b.Titles.Admin)
	}

	if _, ok := cites.Citations["<"+ind+"cite1>"][bundle.RabIDKey]; ok {
		t.Error("merge mutated the shared citation record")
	}
}

func TestMergeJoinCompleteness(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cites, fac := setup(t, []ntriples.Triple{
		{Subject: "<" + ind + "c1>", Predicate: vocab.ContributorPredicate, Object: "<" + ind + "p1>"},
		{Subject: "<" + ind + "c2>", Predicate: vocab.ContributorPredicate, Object: "<" + ind + "stranger>"},
	}, "shortid,rank,unit,type\np1,Professor,History,\np2,Lecturer,History,\n")

	res := New(extractor(t), ExcludeUnappointed, logger.NewWithCore(core)).Merge(cites, fac)

	var authors []string
	for _, b := range res.Bundles {
		authors = append(authors, b.Author)
	}
	if !reflect.DeepEqual(authors, []string{"p1", "p2"}) {
		t.Errorf("authors = %v, want faculty index domain", authors)
	}
	if res.Bundles[1].Publications == nil || len(res.Bundles[1].Publications) != 0 {
		t.Errorf("p2 publications = %#v, want empty list", res.Bundles[1].Publications)
	}
	if !reflect.DeepEqual(res.Excluded, []string{"stranger"}) {
		t.Errorf("excluded = %v", res.Excluded)
	}
	if logs.FilterMessage("no citations for author").Len() != 1 {
		t.Error("expected info log for author without citations")
	}
}

func TestMergeIncludeUnappointed(t *testing.T) {
	cites, fac := setup(t, []ntriples.Triple{
		{Subject: "<" + ind + "c1>", Predicate: vocab.ContributorPredicate, Object: "<" + ind + "a0>"},
		{Subject: "<" + ind + "c1>", Predicate: vocab.ContributorPredicate, Object: "<" + ind + "z9>"},
	}, "shortid,rank,unit,type\np1,Professor,History,\n")

	res := New(extractor(t), IncludeUnappointed, logger.Nop()).Merge(cites, fac)
	var authors []string
	for _, b := range res.Bundles {
		authors = append(authors, b.Author)
	}
	if !reflect.DeepEqual(authors, []string{"a0", "p1", "z9"}) {
		t.Errorf("authors = %v", authors)
	}
	if res.Bundles[0].Titles.Faculty == nil {
		t.Error("unappointed author should get empty, non-nil titles")
	}
	if len(res.Excluded) != 0 {
		t.Errorf("excluded = %v, want none", res.Excluded)
	}
}

func TestMergeRabIDFailure(t *testing.T) {
	cites, fac := setup(t, []ntriples.Triple{
		{Subject: "<http://other.org/c1>", Predicate: vocab.RDFSLabel, Object: `"Elsewhere"`},
		{Subject: "<http://other.org/c1>", Predicate: vocab.ContributorPredicate, Object: "<" + ind + "p1>"},
	}, "shortid,rank,unit,type\np1,Professor,History,\n")

	res := New(extractor(t), ExcludeUnappointed, logger.Nop()).Merge(cites, fac)
	pub := res.Bundles[0].Publications[0]
	if v, ok := pub[bundle.RabIDKey]; !ok || v != "" {
		t.Errorf("rab_id = %q (present %v), want empty", v, ok)
	}
	if res.RabIDFailures != 1 {
		t.Errorf("RabIDFailures = %d", res.RabIDFailures)
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{ExcludeUnappointed, IncludeUnappointed} {
		got, err := ParsePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePolicy("everyone"); err == nil {
		t.Error("expected error")
	}
}
