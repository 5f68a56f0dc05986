package vocab

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		predicate string
		want      string
		ok        bool
	}{
		{RDFSLabel, "title", true},
		{"<http://vivo.brown.edu/ontology/citation#pageStart>", "page_start", true},
		{"<http://vivo.brown.edu/ontology/citation#wokId>", "wok_id", true},
		{"<http://temporary.name.space/venue>", "published_in", true},
		{"<http://vivo.brown.edu/ontology/citation#title>", "", false},
		{ContributorPredicate, "", false},
		{"<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			got, ok := Lookup(tt.predicate)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Lookup = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAttributesUnique(t *testing.T) {
	attrs := Attributes()
	if len(attrs) != 31 {
		t.Errorf("got %d attributes, want 31", len(attrs))
	}
	seen := map[string]bool{}
	for _, a := range attrs {
		if seen[a] {
			t.Errorf("duplicate attribute %q", a)
		}
		seen[a] = true
	}

	attrs[0] = "mutated"
	if Attributes()[0] != "title" {
		t.Error("Attributes returned shared slice")
	}
}

func TestExtract(t *testing.T) {
	ex, err := NewExtractor(DefaultIdentifierBase)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"<http://vivo.brown.edu/individual/000012345>", "000012345", false},
		{"<http://vivo.brown.edu/individual/cite1>", "cite1", false},
		{"<http://vivo.brown.edu/individual/>", "", true},
		{"<http://vivo.brown.edu/individual/a/b>", "", true},
		{"<http://example.org/individual/000012345>", "", true},
		{"http://vivo.brown.edu/individual/000012345", "", true},
		{`"000012345"`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ex.Extract(tt.uri)
			if tt.wantErr {
				var iee *IdentifierExtractionError
				if !errors.As(err, &iee) {
					t.Fatalf("expected IdentifierExtractionError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewExtractorEmptyBase(t *testing.T) {
	if _, err := NewExtractor(""); err == nil {
		t.Error("expected error for empty base")
	}
}
