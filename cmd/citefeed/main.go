// Package main provides the citefeed CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/citefeed/citefeed/internal/config"
	"github.com/citefeed/citefeed/internal/logger"
	"github.com/citefeed/citefeed/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// Persistent flags.
var (
	humanOutput bool
	configPath  string
	logLevel    string
	logFile     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors (missing flags) print here.
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citefeed",
	Short: "Build per-faculty citation bundles from the research graph",
	Long: `citefeed turns the research graph's citation export into one JSON
bundle per appointed faculty member.

Pipeline:
  fetch faculty     Query appointments into faculty_data.csv
  fetch citations   Query citations into citation_data.nt
  merge             Group statements, join with appointments, write bundles
  run               All three in order

The bundles can be indexed into SQLite with 'rebuild' and queried with
'get' and 'search'. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.GlobalConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also append logs to this file")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration and applies persistent flag
// overrides, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = config.ExpandPath(logFile)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid config: %v", err)
	}
	return cfg
}

// mustNewLogger builds the run logger from cfg, exits on error.
// The caller should defer Sync.
func mustNewLogger(cfg *config.Config) *logger.Logger {
	log, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		exitWithError(ExitConfigError, "configuring logging: %v", err)
	}
	return log
}

// mustOpenDatabase opens the SQLite index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(path string) *storage.DB {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitError, "creating index directory: %v", err)
	}
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
