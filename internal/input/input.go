// Package input opens export files, which may be compressed, and streams
// their lines.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
)

// MaxLineSize bounds a single statement line.
const MaxLineSize = 16 * 1024 * 1024

// ErrStop may be returned from a line callback to end reading early
// without error.
var ErrStop = errors.New("stop reading")

// Expand resolves a path or doublestar pattern to a sorted list of files.
// An existing literal path is returned as is, even if it contains glob
// metacharacters.
func Expand(pattern string) ([]string, error) {
	if _, err := os.Stat(pattern); err == nil {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no input files match %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

type zstdReadCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (g gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open opens filename, decompressing .gz and .zst files transparently.
func Open(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(filename, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip %s: %w", filename, err)
		}
		return gzipReadCloser{zr, f}, nil
	case strings.HasSuffix(filename, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening zstd %s: %w", filename, err)
		}
		return zstdReadCloser{zr, f}, nil
	default:
		return f, nil
	}
}

// ReadLines calls fn for each line of each file in order. Line numbers
// are 1-based and continue across files. If limit > 0, reading stops after
// that many lines. It returns the number of lines passed to fn.
func ReadLines(paths []string, limit int, fn func(lineNo int, line string) error) (int, error) {
	n := 0
	for _, p := range paths {
		done, err := readFile(p, &n, limit, fn)
		if err != nil {
			return n, err
		}
		if done {
			break
		}
	}
	return n, nil
}

func readFile(path string, n *int, limit int, fn func(int, string) error) (bool, error) {
	r, err := Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		if limit > 0 && *n >= limit {
			return true, nil
		}
		*n++
		if err := fn(*n, scanner.Text()); err != nil {
			if errors.Is(err, ErrStop) {
				return true, nil
			}
			return false, err
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return limit > 0 && *n >= limit, nil
}
