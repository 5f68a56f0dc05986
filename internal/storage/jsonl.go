// Package storage holds the run history (JSONL) and the SQLite search
// index built from bundle files.
package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"

	"github.com/citefeed/citefeed/internal/pipeline"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadRuns reads the run history, oldest first. A missing file yields no
// runs.
func ReadRuns(path string) ([]pipeline.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	defer f.Close()

	var runs []pipeline.Stats
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var s pipeline.Stats
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, fmt.Errorf("parsing run history line %d: %w", lineNum, err)
		}
		runs = append(runs, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading run history: %w", err)
	}
	return runs, nil
}

// AppendRun adds one run summary to the end of the history file.
func AppendRun(path string, s *pipeline.Stats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening run history for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", s.RunID, err)
	}
	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing run %s: %w", s.RunID, err)
	}
	return nil
}

// LastRuns returns at most n of the most recent runs, newest first.
func LastRuns(runs []pipeline.Stats, n int) []pipeline.Stats {
	if n <= 0 || n > len(runs) {
		n = len(runs)
	}
	out := make([]pipeline.Stats, 0, n)
	for i := len(runs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, runs[i])
	}
	return out
}
