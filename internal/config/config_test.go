package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/citefeed/citefeed/internal/vocab"
)

// isolate points XDG homes at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, env := range []string{EnvEndpoint, EnvEmail, EnvPassword, EnvLogLevel, EnvDataDir} {
		t.Setenv(env, "")
	}
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	dataDir := filepath.Join(dir, "data", "citefeed")
	if cfg.DataDir != dataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dataDir)
	}
	if cfg.CitationsFile != filepath.Join(dataDir, "citation_data.nt") {
		t.Errorf("CitationsFile = %q", cfg.CitationsFile)
	}
	if cfg.FacultyFile != filepath.Join(dataDir, "faculty_data.csv") {
		t.Errorf("FacultyFile = %q", cfg.FacultyFile)
	}
	if cfg.OutputDir != filepath.Join(dataDir, "citations") {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.HistoryFile != filepath.Join(dataDir, "runs.jsonl") {
		t.Errorf("HistoryFile = %q", cfg.HistoryFile)
	}
	if cfg.IdentifierBase != vocab.DefaultIdentifierBase {
		t.Errorf("IdentifierBase = %q", cfg.IdentifierBase)
	}
	if cfg.Throttle != DefaultThrottle || cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("throttle/retries = %v/%d", cfg.Throttle, cfg.MaxRetries)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	isolate(t)
	writeConfig(t, GlobalConfigPath(), `
endpoint: https://vivo.example.edu/api/query
email: admin@example.edu
password: from-file
data_dir: /var/lib/citefeed
throttle: 250ms
timeout: 2m
workers: 4
strict: true
`)
	t.Setenv(EnvPassword, "from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Password != "from-env" {
		t.Errorf("Password = %q, want env override", cfg.Password)
	}
	if cfg.Throttle != 250*time.Millisecond || cfg.Timeout != 2*time.Minute {
		t.Errorf("durations = %v, %v", cfg.Throttle, cfg.Timeout)
	}
	if cfg.OutputDir != "/var/lib/citefeed/citations" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if !cfg.Strict || cfg.Workers != 4 {
		t.Errorf("strict/workers = %v/%d", cfg.Strict, cfg.Workers)
	}
	if err := cfg.ValidateEndpoint(); err != nil {
		t.Errorf("ValidateEndpoint() = %v", err)
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for explicit missing config")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yml")
	writeConfig(t, path, "endpiont: https://typo.example\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "empty.yml")
	writeConfig(t, path, "")
	if _, err := Load(path); err != nil {
		t.Errorf("Load(empty) = %v", err)
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"missing endpoint", Config{}, ErrEndpointNotConfigured},
		{"missing credentials", Config{Endpoint: "https://x.example/q"}, ErrCredentialsMissing},
		{"bad url", Config{Endpoint: "ftp://x", Email: "a", Password: "b"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateEndpoint()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{IdentifierBase: vocab.DefaultIdentifierBase, Workers: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative workers")
	}
	cfg.Workers = 2
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{Email: "a@b.edu", Password: "secret", Endpoint: "https://x"}
	r := cfg.Redacted()
	if r.Password != redacted || r.Email != redacted {
		t.Errorf("not redacted: %+v", r)
	}
	if cfg.Password != "secret" {
		t.Error("Redacted modified the original")
	}
}
