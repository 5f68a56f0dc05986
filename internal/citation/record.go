// Package citation groups subject-sorted triples into per-citation records
// and indexes citations by contributing author.
package citation

import "github.com/citefeed/citefeed/internal/vocab"

// Record maps attribute names to values. Records built by this package
// always carry every attribute in vocab.Attributes.
type Record map[string]string

// NewRecord returns a record stamped with every attribute set to "".
func NewRecord() Record {
	r := make(Record, len(vocab.Attributes())+1)
	for _, a := range vocab.Attributes() {
		r[a] = ""
	}
	return r
}

// Clone returns a shallow copy with room for one extra key.
func (r Record) Clone() Record {
	out := make(Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}
