package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citefeed/citefeed/internal/bundle"
	"github.com/citefeed/citefeed/internal/faculty"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <shortid>",
	Short: "Get one author's bundle from the search index",
	Long: `Get one author's bundle by short id from the search index.

The JSON output matches the bundle file written by merge.

Example:
  citefeed get 000012345`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg.IndexDB)
	defer db.Close()

	id := args[0]
	b, err := db.GetBundle(id)
	if err != nil {
		exitWithError(ExitError, "getting bundle: %v", err)
	}
	if b == nil {
		exitWithError(ExitError, "author not found: %s", id)
	}

	if humanOutput {
		printBundleDetail(b)
	} else {
		outputJSON(b)
	}
	return nil
}

func printBundleDetail(b *bundle.Bundle) {
	fmt.Println(b.Author)
	fmt.Println(strings.Repeat("=", DetailTitleMaxLen))

	printTitles := func(label string, titles []faculty.Title) {
		if len(titles) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", label)
		for _, t := range titles {
			fmt.Printf("  %s, %s\n", t.Rank, t.Unit)
		}
	}
	printTitles("Faculty", b.Titles.Faculty)
	printTitles("Administrative", b.Titles.Admin)

	fmt.Printf("\nPublications (%d):\n", len(b.Publications))
	for i, p := range b.Publications {
		fmt.Printf("%d. %s\n", i+1, wrapText(p["title"], TextWrapWidth, "   "))
		if venue := p["published_in"]; venue != "" {
			fmt.Printf("   %s", venue)
			if date := p["date"]; date != "" {
				fmt.Printf(" (%s)", date)
			}
			fmt.Println()
		}
		if doi := p["doi"]; doi != "" {
			fmt.Printf("   doi:%s\n", doi)
		}
	}
}
