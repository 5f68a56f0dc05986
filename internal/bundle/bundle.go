// Package bundle defines the per-author output document and writes it to
// disk.
package bundle

import (
	"github.com/citefeed/citefeed/internal/citation"
	"github.com/citefeed/citefeed/internal/faculty"
)

// RabIDKey is the key added to each publication naming its citation id.
const RabIDKey = "rab_id"

// Bundle is one author's output document. Fields are declared in key
// order so encoded output is sorted at every level.
type Bundle struct {
	Author       string            `json:"-"`
	Publications []citation.Record `json:"publications"`
	Titles       *faculty.Titles   `json:"titles"`
}

// FileName returns the bundle's file name within the output directory.
func FileName(author string) string {
	return author + ".json"
}
