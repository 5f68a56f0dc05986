package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citefeed/citefeed/internal/config"
	"github.com/citefeed/citefeed/internal/logger"
	"github.com/citefeed/citefeed/internal/sparql"
)

var fetchTest bool

func init() {
	fetchCmd.PersistentFlags().BoolVar(&fetchTest, "test", false, "Limit query results to 20 rows")
	fetchCmd.AddCommand(fetchFacultyCmd, fetchCitationsCmd)
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Query the research graph for raw exports",
	Long: `Query the research graph endpoint and write the raw export files.

Requires CITEFEED_ENDPOINT, CITEFEED_EMAIL and CITEFEED_PASSWORD (or the
endpoint, email and password config keys). A .env file in the working
directory is loaded first.

Exports replace the previous file only when the query succeeds.`,
}

var fetchFacultyCmd = &cobra.Command{
	Use:   "faculty",
	Short: "Fetch faculty appointments as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(func(cfg *config.Config) (sparql.Query, string) {
			return sparql.FacultyQuery(fetchTest), cfg.FacultyFile
		})
	},
}

var fetchCitationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Fetch citation statements as N-Triples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(func(cfg *config.Config) (sparql.Query, string) {
			return sparql.CitationQuery(fetchTest), cfg.CitationsFile
		})
	},
}

// FetchResult is the response for fetch commands.
type FetchResult struct {
	Status string `json:"status"`
	Query  string `json:"query"`
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
}

func runFetch(target func(*config.Config) (sparql.Query, string)) error {
	cfg := mustLoadConfig()
	log := mustNewLogger(cfg)
	defer log.Sync()

	if err := cfg.ValidateEndpoint(); err != nil {
		exitWithErr("fetch", err)
	}
	ctx, cancel := commandContext()
	defer cancel()

	q, path := target(cfg)
	res, err := fetchExport(ctx, newClient(cfg, log), q, path)
	if err != nil {
		exitWithErr("fetch "+q.Name, err)
	}

	if humanOutput {
		printFetchResult(res)
	} else {
		outputJSON(res)
	}
	return nil
}

func printFetchResult(res *FetchResult) {
	fmt.Printf("Fetched %s: %d bytes to %s\n", res.Query, res.Bytes, res.Path)
}

func newClient(cfg *config.Config, log *logger.Logger) *sparql.Client {
	return sparql.NewClient(cfg.Endpoint,
		sparql.WithCredentials(cfg.Email, cfg.Password),
		sparql.WithThrottle(cfg.Throttle),
		sparql.WithRetries(cfg.MaxRetries),
		sparql.WithTimeout(cfg.Timeout),
		sparql.WithLogger(log),
	)
}

func fetchExport(ctx context.Context, c *sparql.Client, q sparql.Query, path string) (*FetchResult, error) {
	n, err := c.FetchToFile(ctx, q, path)
	if err != nil {
		return nil, err
	}
	return &FetchResult{Status: "fetched", Query: q.Name, Path: path, Bytes: n}, nil
}
