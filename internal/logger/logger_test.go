package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedaction(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)

	log.Info("fetching", "endpoint", "https://example.org/sparql", "email", "a@b.edu", "Password", "hunter2")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["endpoint"] != "https://example.org/sparql" {
		t.Errorf("endpoint = %v", fields["endpoint"])
	}
	if fields["email"] != redacted {
		t.Errorf("email not redacted: %v", fields["email"])
	}
	if fields["Password"] != redacted {
		t.Errorf("Password not redacted: %v", fields["Password"])
	}
}

func TestWithRedacts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core).With("api_token", "abc")
	log.Warn("x")

	if got := logs.All()[0].ContextMap()["api_token"]; got != redacted {
		t.Errorf("api_token = %v, want redacted", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etl.log")
	log, err := New(Options{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("merge complete", "bundles", 3)
	log.Debug("hidden")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"bundles":3`) {
		t.Errorf("log file missing entry: %s", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestNewRejectsFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
