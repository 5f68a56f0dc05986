// Package faculty builds the per-author title index from the appointment
// export. Authors present in this index are the only ones that get output.
package faculty

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/citefeed/citefeed/internal/logger"
)

// Required columns. Others (fac, pos, ...) are ignored.
const (
	ColShortID = "shortid"
	ColRank    = "rank"
	ColUnit    = "unit"
	ColType    = "type"
)

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("faculty export missing required columns")

// Title is one appointment with its classification column dropped.
type Title struct {
	Rank string `json:"rank"`
	Unit string `json:"unit"`
}

// Titles splits an author's appointments by position type.
type Titles struct {
	Admin   []Title `json:"admin_titles"`
	Faculty []Title `json:"faculty_titles"`
}

// Index maps short ids to titles. Title slices are never nil.
type Index map[string]*Titles

// Authors returns the short ids in the index, sorted.
func (ix Index) Authors() []string {
	out := make([]string, 0, len(ix))
	for id := range ix {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Builder reads appointment rows.
type Builder struct {
	adminType string
	log       *logger.Logger
}

// NewBuilder returns a Builder that classifies rows whose type equals
// adminType as administrative.
func NewBuilder(adminType string, log *logger.Logger) *Builder {
	return &Builder{adminType: adminType, log: log}
}

// Build reads a CSV export with a header row. Column order is free and
// header names are matched case-insensitively. Input with no rows at all
// yields an empty index.
func (b *Builder) Build(r io.Reader) (Index, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Index{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading faculty header: %w", err)
	}
	cols, err := columnMap(header)
	if err != nil {
		return nil, err
	}

	ix := Index{}
	row := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("reading faculty row %d: %w", row, err)
		}

		field := func(name string) string {
			i := cols[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		id := field(ColShortID)
		if id == "" {
			b.log.Warn("skipping faculty row without shortid", "row", row)
			continue
		}
		t, ok := ix[id]
		if !ok {
			t = &Titles{Admin: []Title{}, Faculty: []Title{}}
			ix[id] = t
		}
		title := Title{Rank: field(ColRank), Unit: field(ColUnit)}
		if field(ColType) == b.adminType {
			t.Admin = append(t.Admin, title)
		} else {
			t.Faculty = append(t.Faculty, title)
		}
	}

	b.log.Info("faculty index built", "authors", len(ix), "rows", row-1)
	return ix, nil
}

func columnMap(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	var missing []string
	for _, req := range []string{ColShortID, ColRank, ColUnit, ColType} {
		if _, ok := cols[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}
