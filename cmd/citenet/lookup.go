package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/paper"
)

var lookupRefs bool

func init() {
	lookupCmd.Flags().BoolVar(&lookupRefs, "refs", false, "Also fetch the reference list of the match")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <title>",
	Short: "Resolve a title against Semantic Scholar",
	Long: `Look up a title the way the indexer does for a new document, without
touching the index. Useful to see why a document fell back to local
extraction.

Examples:
  citenet lookup "Attention Is All You Need"
  citenet lookup "Attention Is All You Need" --refs --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

// LookupResult is the response for the lookup command.
type LookupResult struct {
	Found      bool              `json:"found"`
	Query      string            `json:"query"`
	ExternalID string            `json:"semantic_scholar_id,omitempty"`
	Title      string            `json:"title,omitempty"`
	Authors    []string          `json:"authors,omitempty"`
	Year       string            `json:"year,omitempty"`
	Abstract   string            `json:"abstract,omitempty"`
	References []paper.Reference `json:"references,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	lib := mustOpenLibrary()
	resolver := lib.newResolver()

	ctx := context.Background()
	query := strings.Join(args, " ")
	res := LookupResult{Query: query}

	m, ok := resolver.ResolveByTitle(ctx, query)
	if ok {
		res.Found = true
		res.ExternalID = m.ExternalID
		res.Title = m.Title
		res.Authors = m.Authors
		res.Year = m.Year
		res.Abstract = m.Abstract
		if lookupRefs {
			res.References = resolver.FetchReferences(ctx, m.ExternalID)
		}
	}

	if !humanOutput {
		outputJSON(res)
		return nil
	}

	if !res.Found {
		fmt.Printf("No Semantic Scholar match for %q\n", query)
		return nil
	}
	fmt.Printf("%s\n", res.Title)
	if len(res.Authors) > 0 {
		fmt.Printf("  %s\n", formatAuthorsShort(res.Authors, 5))
	}
	if res.Year != "" {
		fmt.Printf("  %s\n", res.Year)
	}
	fmt.Printf("  S2 ID: %s\n", res.ExternalID)
	if lookupRefs {
		fmt.Printf("\nReferences (%d):\n", len(res.References))
		for i, r := range res.References {
			fmt.Printf("  %3d. %s\n", i+1, truncateString(r.Text, DetailTitleMaxLen))
		}
	}
	return nil
}
