package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/segmentio/encoding/json"
)

// Read loads one bundle file. The author id comes from the file name.
func Read(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	b.Author = strings.TrimSuffix(filepath.Base(path), ".json")
	return &b, nil
}

// ReadDir loads every bundle in dir, sorted by author.
func ReadDir(dir string) ([]*Bundle, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing bundles: %w", err)
	}
	sort.Strings(matches)

	out := make([]*Bundle, 0, len(matches))
	for _, m := range matches {
		b, err := Read(m)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
