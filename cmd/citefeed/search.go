package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citefeed/citefeed/internal/storage"
)

var (
	searchLimit int
	searchField string
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringVar(&searchField, "field", "", "Restrict to one field: author, title, venue")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed publications",
	Long: `Full-text search over indexed publication titles, author lists and
venues. Run 'citefeed rebuild' (or 'merge --index') first.

Query syntax:
  Plain text     - Searches title, authors and venue
  author:name    - Search author lists only
  title:text     - Search titles only

Examples:
  citefeed search genomics
  citefeed search "author:Smith"
  citefeed search --field venue Nature --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg.IndexDB)
	defer db.Close()

	field, query := searchField, args[0]
	if field == "" {
		for _, prefix := range []string{"author", "title", "venue"} {
			if strings.HasPrefix(query, prefix+":") {
				field, query = prefix, strings.TrimPrefix(query, prefix+":")
				break
			}
		}
	}

	var hits []storage.Hit
	var err error
	if field != "" {
		hits, err = db.SearchField(field, query, searchLimit)
	} else {
		hits, err = db.Search(query, searchLimit)
	}
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	// Empty result is not an error
	if hits == nil {
		hits = []storage.Hit{}
	}

	if humanOutput {
		if len(hits) == 0 {
			fmt.Println("No publications found")
		} else {
			fmt.Printf("Found %d publications:\n\n", len(hits))
			for i, h := range hits {
				printHitSummary(i+1, h)
			}
		}
	} else {
		outputJSON(hits)
	}
	return nil
}

func printHitSummary(n int, h storage.Hit) {
	fmt.Printf("%d. [%s] %s\n", n, h.ShortID, truncateString(h.Title, SearchTitleMaxLen))
	if h.Authors != "" {
		fmt.Printf("   %s\n", truncateString(h.Authors, SearchTitleMaxLen))
	}
	if h.PublishedIn != "" || h.Date != "" {
		fmt.Printf("   %s %s\n", h.PublishedIn, h.Date)
	}
	fmt.Println()
}
