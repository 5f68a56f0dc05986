package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/citefeed/citefeed/internal/pipeline"
)

func TestReadRuns_NonExistentFile(t *testing.T) {
	runs, err := ReadRuns("/nonexistent/path/runs.jsonl")
	if err != nil {
		t.Fatalf("ReadRuns() error = %v (should return nil for nonexistent file)", err)
	}
	if len(runs) != 0 {
		t.Errorf("ReadRuns() returned %v, want empty", runs)
	}
}

func TestAppendAndReadRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "runs.jsonl")

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		s := &pipeline.Stats{RunID: id, BundlesWritten: 2, SkippedPredicates: []string{}}
		if err := AppendRun(path, s); err != nil {
			t.Fatalf("AppendRun(%s) error = %v", id, err)
		}
	}

	runs, err := ReadRuns(path)
	if err != nil {
		t.Fatalf("ReadRuns() error = %v", err)
	}
	if len(runs) != 3 || runs[0].RunID != "run-1" || runs[2].BundlesWritten != 2 {
		t.Fatalf("ReadRuns() = %+v", runs)
	}

	last := LastRuns(runs, 2)
	if len(last) != 2 || last[0].RunID != "run-3" || last[1].RunID != "run-2" {
		t.Errorf("LastRuns(2) = %+v", last)
	}
	if got := LastRuns(runs, 0); len(got) != 3 {
		t.Errorf("LastRuns(0) returned %d runs, want all", len(got))
	}
}

func TestReadRuns_SkipsBlankLinesAndRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	os.WriteFile(path, []byte("{\"run_id\":\"a\"}\n\n{\"run_id\":\"b\"}\n"), 0644)
	runs, err := ReadRuns(path)
	if err != nil || len(runs) != 2 {
		t.Fatalf("ReadRuns() = %v, %v", runs, err)
	}

	os.WriteFile(path, []byte("{\"run_id\":\"a\"}\nnot json\n"), 0644)
	if _, err := ReadRuns(path); err == nil {
		t.Error("expected error for malformed line")
	}
}
