package bundle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/segmentio/encoding/json"
	"golang.org/x/sync/errgroup"

	"github.com/citefeed/citefeed/internal/logger"
)

// ErrInvalidAuthorID is returned for author ids that cannot be used as a
// file name.
var ErrInvalidAuthorID = errors.New("invalid author id")

// ValidateAuthorID rejects ids that are empty or could escape the output
// directory.
func ValidateAuthorID(id string) error {
	if id == "" || id == "." || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`+"\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAuthorID, id)
	}
	return nil
}

// Encode renders a bundle as indented JSON with sorted keys and a trailing
// newline.
func Encode(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetSortMapKeys(true)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("encoding bundle %s: %w", b.Author, err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// WriteStats summarizes a WriteAll call.
type WriteStats struct {
	Written int      `json:"written"`
	Invalid []string `json:"invalid,omitempty"`
}

// Writer writes bundles into a directory.
type Writer struct {
	dir     string
	workers int
	log     *logger.Logger
}

// NewWriter creates a Writer. workers <= 0 means one per CPU.
func NewWriter(dir string, workers int, log *logger.Logger) *Writer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Writer{dir: dir, workers: workers, log: log}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Clean removes existing bundle files so authors no longer appointed do
// not linger from earlier runs.
func (w *Writer) Clean() (int, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(w.dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("listing bundles: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return 0, fmt.Errorf("removing %s: %w", m, err)
		}
	}
	return len(matches), nil
}

// WriteAll writes every bundle on a bounded pool. Bundles with invalid
// author ids are logged and skipped; any I/O error stops the pool.
func (w *Writer) WriteAll(ctx context.Context, bundles []*Bundle) (*WriteStats, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	stats := &WriteStats{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for _, b := range bundles {
		if err := ValidateAuthorID(b.Author); err != nil {
			w.log.Warn("skipping bundle", "error", err)
			stats.Invalid = append(stats.Invalid, b.Author)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.Write(b); err != nil {
				return err
			}
			mu.Lock()
			stats.Written++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// Write encodes one bundle and atomically replaces its file.
func (w *Writer) Write(b *Bundle) error {
	if err := ValidateAuthorID(b.Author); err != nil {
		return err
	}
	data, err := Encode(b)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(w.dir, "."+b.Author+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", b.Author, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", b.Author, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", b.Author, err)
	}
	if err := os.Rename(tmpName, filepath.Join(w.dir, FileName(b.Author))); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s: %w", b.Author, err)
	}
	return nil
}
