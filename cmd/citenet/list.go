package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/author"
	"github.com/matsen/citenet/internal/paper"
)

var (
	listLimit   int
	listAuthors []string
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	listCmd.Flags().StringArrayVarP(&listAuthors, "author", "a", nil, "Only papers by this author (repeatable, AND logic)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed papers",
	Long: `List all papers in the index with their citation counts.

Examples:
  citenet list
  citenet list --limit 20 --human
  citenet list -a Vaswani -a "N Shazeer"`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	lib := mustOpenLibrary()
	sums := filterByAuthors(lib.openStore().Summaries(), listAuthors)
	total := len(sums)
	if listLimit > 0 && listLimit < total {
		sums = sums[:listLimit]
	}

	if !humanOutput {
		outputJSON(sums)
		return nil
	}

	if total == 0 {
		fmt.Println("No papers in library")
		return nil
	}
	if len(sums) < total {
		fmt.Printf("%d papers (showing first %d):\n\n", total, len(sums))
	} else {
		fmt.Printf("%d papers in library:\n\n", total)
	}
	for _, s := range sums {
		fmt.Printf("  %-30s %-*s  cites %d, cited by %d\n",
			truncateString(s.Filename, 30), ListTitleMaxLen, truncateString(s.Title, ListTitleMaxLen),
			s.CitesCount, s.CitedByCount)
	}
	return nil
}

// filterByAuthors keeps summaries matching every author filter.
func filterByAuthors(sums []paper.Summary, filters []string) []paper.Summary {
	if len(filters) == 0 {
		return sums
	}
	queries := make([]author.Query, len(filters))
	for i, f := range filters {
		queries[i] = author.ParseQuery(f)
	}

	out := []paper.Summary{}
	for _, s := range sums {
		if author.AllMatch(queries, s.Authors) {
			out = append(out, s)
		}
	}
	return out
}
