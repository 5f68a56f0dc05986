package main

import (
	"testing"

	"github.com/citefeed/citefeed/internal/config"
	"github.com/citefeed/citefeed/internal/merge"
)

func TestApplyMergeFlags(t *testing.T) {
	cfg := &config.Config{CitationsFile: "from-config.nt", Workers: 4}
	if err := mergeCmd.Flags().Set("citations", "flag.nt"); err != nil {
		t.Fatal(err)
	}
	if err := mergeCmd.Flags().Set("include-unappointed", "true"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		mergeCmd.Flags().Set("citations", "")
		mergeCmd.Flags().Set("include-unappointed", "false")
		mergeCmd.Flags().Lookup("citations").Changed = false
		mergeCmd.Flags().Lookup("include-unappointed").Changed = false
	})

	applyMergeFlags(mergeCmd, cfg)
	if cfg.CitationsFile != "flag.nt" {
		t.Errorf("CitationsFile = %q, want flag value", cfg.CitationsFile)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, unset flag should keep config value", cfg.Workers)
	}

	opts := mergeOptions(cfg)
	if opts.Policy != merge.IncludeUnappointed {
		t.Errorf("Policy = %v, want include", opts.Policy)
	}
	if opts.CitationsPath != "flag.nt" || opts.Workers != 4 {
		t.Errorf("options = %+v", opts)
	}
}
