// Package config loads the citefeed configuration from YAML, environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/citefeed/citefeed/internal/vocab"
)

// Environment variables that override file values. A .env file in the
// working directory is loaded into the environment by the CLI first.
const (
	EnvEndpoint = "CITEFEED_ENDPOINT"
	EnvEmail    = "CITEFEED_EMAIL"
	EnvPassword = "CITEFEED_PASSWORD"
	EnvLogLevel = "CITEFEED_LOG_LEVEL"
	EnvDataDir  = "CITEFEED_DATA_DIR"
)

// Defaults.
const (
	DefaultThrottle   = time.Second
	DefaultMaxRetries = 3
	DefaultTimeout    = 5 * time.Minute
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// Config is the full runtime configuration.
type Config struct {
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Email    string `yaml:"email,omitempty" json:"email,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`

	DataDir       string `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	CitationsFile string `yaml:"citations_file,omitempty" json:"citations_file,omitempty"` // path or glob
	FacultyFile   string `yaml:"faculty_file,omitempty" json:"faculty_file,omitempty"`
	OutputDir     string `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	IndexDB       string `yaml:"index_db,omitempty" json:"index_db,omitempty"`
	MetricsFile   string `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`
	HistoryFile   string `yaml:"history_file,omitempty" json:"history_file,omitempty"`

	LogFile   string `yaml:"log_file,omitempty" json:"log_file,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty" json:"log_format,omitempty"`

	IdentifierBase    string `yaml:"identifier_base,omitempty" json:"identifier_base,omitempty"`
	AdminPositionType string `yaml:"admin_position_type,omitempty" json:"admin_position_type,omitempty"`

	Throttle   time.Duration `yaml:"throttle,omitempty" json:"throttle,omitempty"`
	MaxRetries int           `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	Workers            int  `yaml:"workers,omitempty" json:"workers,omitempty"`
	Strict             bool `yaml:"strict,omitempty" json:"strict,omitempty"`
	Clean              bool `yaml:"clean,omitempty" json:"clean,omitempty"`
	IncludeUnappointed bool `yaml:"include_unappointed,omitempty" json:"include_unappointed,omitempty"`
}

var (
	// ErrEndpointNotConfigured is returned when a command needs the query
	// endpoint and none is set.
	ErrEndpointNotConfigured = errors.New("endpoint not configured")

	// ErrCredentialsMissing is returned when email or password is unset.
	ErrCredentialsMissing = errors.New("endpoint credentials not configured")
)

// Load reads the config file at path. An empty path means the default
// location, where a missing file is not an error. Environment overrides
// and defaults are applied before returning.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = GlobalConfigPath()
	}

	cfg := &Config{}
	if path != "" {
		if err := cfg.readFile(ExpandPath(path)); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		EnvEndpoint: &c.Endpoint,
		EnvEmail:    &c.Email,
		EnvPassword: &c.Password,
		EnvLogLevel: &c.LogLevel,
		EnvDataDir:  &c.DataDir,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	c.DataDir = ExpandPath(c.DataDir)

	defaultPath := func(p *string, name string) {
		if *p == "" {
			*p = filepath.Join(c.DataDir, name)
		}
		*p = ExpandPath(*p)
	}
	defaultPath(&c.CitationsFile, CitationsFile)
	defaultPath(&c.FacultyFile, FacultyFile)
	defaultPath(&c.OutputDir, BundleDir)
	defaultPath(&c.IndexDB, IndexFile)
	defaultPath(&c.HistoryFile, HistoryFile)
	c.MetricsFile = ExpandPath(c.MetricsFile)
	c.LogFile = ExpandPath(c.LogFile)

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.IdentifierBase == "" {
		c.IdentifierBase = vocab.DefaultIdentifierBase
	}
	if c.AdminPositionType == "" {
		c.AdminPositionType = vocab.AdminPositionType
	}
	if c.Throttle == 0 {
		c.Throttle = DefaultThrottle
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// ValidateEndpoint checks the settings needed to query the endpoint.
func (c *Config) ValidateEndpoint() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w (set endpoint in %s or %s)", ErrEndpointNotConfigured, GlobalConfigPath(), EnvEndpoint)
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint URL: %s", c.Endpoint)
	}
	if c.Email == "" || c.Password == "" {
		return fmt.Errorf("%w (set %s and %s)", ErrCredentialsMissing, EnvEmail, EnvPassword)
	}
	return nil
}

// Validate checks settings every command relies on.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if _, err := vocab.NewExtractor(c.IdentifierBase); err != nil {
		return err
	}
	return nil
}

const redacted = "[REDACTED]"

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Email != "" {
		out.Email = redacted
	}
	if out.Password != "" {
		out.Password = redacted
	}
	return &out
}
