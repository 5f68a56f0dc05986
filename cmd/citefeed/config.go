package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/citefeed/citefeed/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after the config file, .env, environment
variables and defaults have been applied. Credentials are redacted.

Config file: ` + config.GlobalConfigPath() + `

Environment:
  ` + config.EnvEndpoint + `   SPARQL query endpoint URL
  ` + config.EnvEmail + `      Endpoint account email
  ` + config.EnvPassword + `   Endpoint account password
  ` + config.EnvLogLevel + `  debug, info, warn, error
  ` + config.EnvDataDir + `   Base directory for exports, bundles and index`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig().Redacted()
	path := configPath
	if path == "" {
		path = config.GlobalConfigPath()
	}

	if humanOutput {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			exitWithError(ExitError, "rendering config: %v", err)
		}
		fmt.Printf("# %s\n%s", path, out)
	} else {
		outputJSON(ConfigResponse{Path: path, Config: cfg})
	}
	return nil
}
