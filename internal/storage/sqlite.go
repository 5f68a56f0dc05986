package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"
	_ "modernc.org/sqlite"

	"github.com/citefeed/citefeed/internal/bundle"
	"github.com/citefeed/citefeed/internal/citation"
	"github.com/citefeed/citefeed/internal/faculty"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Hit is one publication returned by a search.
type Hit struct {
	ShortID     string `json:"shortid"`
	RabID       string `json:"rab_id"`
	Title       string `json:"title"`
	Authors     string `json:"authors,omitempty"`
	PublishedIn string `json:"published_in,omitempty"`
	Date        string `json:"date,omitempty"`
	DOI         string `json:"doi,omitempty"`
}

const selectHitFields = `shortid, rab_id, title, authors, published_in, date, doi`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS faculty (
			shortid TEXT PRIMARY KEY,
			titles_json TEXT NOT NULL,
			publication_count INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS publications (
			shortid TEXT NOT NULL,
			position INTEGER NOT NULL,
			rab_id TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			published_in TEXT,
			date TEXT,
			doi TEXT,
			record_json TEXT NOT NULL,
			PRIMARY KEY (shortid, position)
		);

		CREATE INDEX IF NOT EXISTS idx_publications_rab_id ON publications(rab_id);
		CREATE INDEX IF NOT EXISTS idx_publications_doi ON publications(doi) WHERE doi IS NOT NULL AND doi != '';

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS publications_fts USING fts5(
			shortid UNINDEXED,
			position UNINDEXED,
			title,
			authors,
			published_in
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromBundles clears the database and reloads it from the bundle
// files in dir. It returns the number of authors loaded.
func (d *DB) RebuildFromBundles(dir string) (int, error) {
	bundles, err := bundle.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading bundles: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"faculty", "publications", "publications_fts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	facStmt, err := tx.Prepare(`INSERT INTO faculty (shortid, titles_json, publication_count) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing faculty insert: %w", err)
	}
	defer facStmt.Close()

	pubStmt, err := tx.Prepare(`
		INSERT INTO publications (
			shortid, position, rab_id, title, authors, published_in, date, doi, record_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing publications insert: %w", err)
	}
	defer pubStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO publications_fts (shortid, position, title, authors, published_in)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, b := range bundles {
		titlesJSON, err := json.Marshal(b.Titles)
		if err != nil {
			return 0, fmt.Errorf("marshaling titles for %s: %w", b.Author, err)
		}
		if _, err := facStmt.Exec(b.Author, string(titlesJSON), len(b.Publications)); err != nil {
			return 0, fmt.Errorf("inserting faculty %s: %w", b.Author, err)
		}

		for i, pub := range b.Publications {
			recordJSON, err := json.Marshal(pub)
			if err != nil {
				return 0, fmt.Errorf("marshaling publication for %s: %w", b.Author, err)
			}
			_, err = pubStmt.Exec(
				b.Author, i, pub[bundle.RabIDKey], pub["title"], pub["authors"],
				pub["published_in"], pub["date"], nullableStringValue(pub["doi"]),
				string(recordJSON),
			)
			if err != nil {
				return 0, fmt.Errorf("inserting publication %s/%d: %w", b.Author, i, err)
			}
			if _, err := ftsStmt.Exec(b.Author, i, pub["title"], pub["authors"], pub["published_in"]); err != nil {
				return 0, fmt.Errorf("inserting fts for %s/%d: %w", b.Author, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(bundles), nil
}

// GetBundle reassembles an author's bundle. It returns nil, nil when the
// author is not indexed.
func (d *DB) GetBundle(shortid string) (*bundle.Bundle, error) {
	var titlesJSON string
	err := d.db.QueryRow(`SELECT titles_json FROM faculty WHERE shortid = ?`, shortid).Scan(&titlesJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting faculty %s: %w", shortid, err)
	}

	b := &bundle.Bundle{Author: shortid, Publications: []citation.Record{}}
	var titles faculty.Titles
	if err := json.Unmarshal([]byte(titlesJSON), &titles); err != nil {
		return nil, fmt.Errorf("parsing titles for %s: %w", shortid, err)
	}
	b.Titles = &titles

	rows, err := d.db.Query(`SELECT record_json FROM publications WHERE shortid = ? ORDER BY position`, shortid)
	if err != nil {
		return nil, fmt.Errorf("getting publications for %s: %w", shortid, err)
	}
	defer rows.Close()

	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, err
		}
		var rec citation.Record
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			return nil, fmt.Errorf("parsing publication for %s: %w", shortid, err)
		}
		b.Publications = append(b.Publications, rec)
	}
	return b, rows.Err()
}

// Search performs a full-text search over titles, authors and venues.
func (d *DB) Search(query string, limit int) ([]Hit, error) {
	return d.searchFTS(prepareFTSQuery(query), limit)
}

// SearchField performs a search on a specific field.
func (d *DB) SearchField(field, value string, limit int) ([]Hit, error) {
	var ftsQuery string

	switch field {
	case "author":
		ftsQuery = "authors:" + prepareFTSQuery(value)
	case "title":
		ftsQuery = "title:" + prepareFTSQuery(value)
	case "venue":
		ftsQuery = "published_in:" + prepareFTSQuery(value)
	default:
		return nil, fmt.Errorf("unknown search field: %s", field)
	}
	return d.searchFTS(ftsQuery, limit)
}

func (d *DB) searchFTS(ftsQuery string, limit int) ([]Hit, error) {
	rows, err := d.db.Query(`
		SELECT p.shortid, p.rab_id, p.title, p.authors, p.published_in, p.date, p.doi
		FROM publications p
		JOIN (SELECT shortid, position, rank FROM publications_fts WHERE publications_fts MATCH ?) f
			ON f.shortid = p.shortid AND CAST(f.position AS INTEGER) = p.position
		ORDER BY f.rank, p.shortid, p.position
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// ListByAuthor returns an author's publications in bundle order.
func (d *DB) ListByAuthor(shortid string) ([]Hit, error) {
	rows, err := d.db.Query(`SELECT `+selectHitFields+` FROM publications WHERE shortid = ? ORDER BY position`, shortid)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// Count returns the number of indexed authors and publications.
func (d *DB) Count() (authors, publications int, err error) {
	if err = d.db.QueryRow("SELECT COUNT(*) FROM faculty").Scan(&authors); err != nil {
		return 0, 0, err
	}
	err = d.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&publications)
	return authors, publications, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHit(s scanner) (Hit, error) {
	var h Hit
	var title, authors, venue, date, doi sql.NullString
	if err := s.Scan(&h.ShortID, &h.RabID, &title, &authors, &venue, &date, &doi); err != nil {
		return h, err
	}
	h.Title = title.String
	h.Authors = authors.String
	h.PublishedIn = venue.String
	h.Date = date.String
	h.DOI = doi.String
	return h, nil
}

func scanHits(rows *sql.Rows) ([]Hit, error) {
	var hits []Hit
	for rows.Next() {
		h, err := scanHit(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~./<>") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
