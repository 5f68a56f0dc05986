package vocab

import (
	"errors"
	"fmt"
	"regexp"
)

// IdentifierExtractionError reports a URI that does not sit directly under
// the configured identifier base.
type IdentifierExtractionError struct {
	URI  string
	Base string
}

func (e *IdentifierExtractionError) Error() string {
	return fmt.Sprintf("cannot extract identifier from %s (expected <%s{id}>)", e.URI, e.Base)
}

// Extractor derives short identifiers such as "000012345" from bracketed
// URIs like <http://vivo.brown.edu/individual/000012345>.
type Extractor struct {
	base string
	re   *regexp.Regexp
}

// NewExtractor compiles the identifier pattern for base.
func NewExtractor(base string) (*Extractor, error) {
	if base == "" {
		return nil, errors.New("identifier base is empty")
	}
	re, err := regexp.Compile(`^<` + regexp.QuoteMeta(base) + `([^/<>\s]+)>$`)
	if err != nil {
		return nil, fmt.Errorf("compiling identifier pattern: %w", err)
	}
	return &Extractor{base: base, re: re}, nil
}

// Base returns the URI prefix the extractor matches.
func (e *Extractor) Base() string { return e.base }

// Extract returns the identifier portion of uri.
func (e *Extractor) Extract(uri string) (string, error) {
	m := e.re.FindStringSubmatch(uri)
	if m == nil {
		return "", &IdentifierExtractionError{URI: uri, Base: e.base}
	}
	return m[1], nil
}
