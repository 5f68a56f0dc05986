package citation

import "sort"

// AuthorIndex maps an author identifier to the citation subjects they
// contributed to. Each author's list is a set kept in insertion order.
type AuthorIndex struct {
	ids  map[string][]string
	seen map[string]map[string]struct{}
}

// NewAuthorIndex returns an empty index.
func NewAuthorIndex() *AuthorIndex {
	return &AuthorIndex{
		ids:  make(map[string][]string),
		seen: make(map[string]map[string]struct{}),
	}
}

// Add records that author contributed to subject. It reports false when
// the pair was already present.
func (ix *AuthorIndex) Add(author, subject string) bool {
	s, ok := ix.seen[author]
	if !ok {
		s = make(map[string]struct{})
		ix.seen[author] = s
	}
	if _, dup := s[subject]; dup {
		return false
	}
	s[subject] = struct{}{}
	ix.ids[author] = append(ix.ids[author], subject)
	return true
}

// Citations returns the subjects for author in insertion order. The slice
// is owned by the index and must not be modified.
func (ix *AuthorIndex) Citations(author string) []string {
	return ix.ids[author]
}

// Has reports whether author has at least one citation.
func (ix *AuthorIndex) Has(author string) bool {
	_, ok := ix.ids[author]
	return ok
}

// Authors returns all indexed authors, sorted.
func (ix *AuthorIndex) Authors() []string {
	out := make([]string, 0, len(ix.ids))
	for a := range ix.ids {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of indexed authors.
func (ix *AuthorIndex) Len() int { return len(ix.ids) }
