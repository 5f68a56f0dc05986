package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Lines.Add(10)
	m.StatementsSkipped.WithLabelValues(ReasonMalformed).Inc()
	m.BundlesWritten.Add(2)
	start := time.Unix(1700000000, 0)
	m.Succeeded(start, start.Add(3*time.Second))

	if got := testutil.ToFloat64(m.RunDuration); got != 3 {
		t.Errorf("run duration = %v, want 3", got)
	}

	path := filepath.Join(t.TempDir(), "citefeed.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"citefeed_lines_total 10",
		`citefeed_statements_skipped_total{reason="malformed"} 1`,
		"citefeed_bundles_written_total 2",
		"citefeed_last_success_timestamp_seconds 1.700000003e+09",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}
