package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/storage"
)

var (
	searchLimit    int
	searchTitle    string
	searchAuthor   string
	searchAbstract string
)

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringVar(&searchTitle, "title", "", "Search the title only")
	searchCmd.Flags().StringVar(&searchAuthor, "author", "", "Search author names only")
	searchCmd.Flags().StringVar(&searchAbstract, "abstract", "", "Search abstracts only")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over indexed papers",
	Long: `Search filenames, titles, authors and abstracts of indexed papers.

The search runs against the SQLite cache under .citenet/cache, which is built
from papers_index.json on first use and refreshed by scan, watch and rebuild.

Examples:
  citenet search attention
  citenet search --author vaswani
  citenet search --title "sequence to sequence" --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	field, value := "", ""
	switch {
	case searchTitle != "":
		field, value = "title", searchTitle
	case searchAuthor != "":
		field, value = "author", searchAuthor
	case searchAbstract != "":
		field, value = "abstract", searchAbstract
	}
	if len(args) == 0 && field == "" {
		exitWithError(ExitError, "provide a query or one of --title, --author, --abstract")
	}

	lib := mustOpenLibrary()
	db := mustOpenCache(lib)
	defer db.Close()

	var (
		results []paper.Summary
		err     error
	)
	if field != "" {
		results, err = db.SearchField(field, value, searchLimit)
	} else {
		results, err = db.Search(args[0], searchLimit)
	}
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if !humanOutput {
		outputJSON(results)
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No matching papers")
		return nil
	}
	for i, s := range results {
		fmt.Printf("%d. %s\n", i+1, s.Filename)
		fmt.Printf("   %s\n", truncateString(s.Title, ListTitleMaxLen))
		meta := []string{}
		if len(s.Authors) > 0 {
			meta = append(meta, formatAuthorsShort(s.Authors, 3))
		}
		if s.Year != "" {
			meta = append(meta, s.Year)
		}
		if len(meta) > 0 {
			fmt.Printf("   %s\n", strings.Join(meta, " | "))
		}
		fmt.Println()
	}
	return nil
}

// mustOpenCache opens the search cache, building it from the index when it
// does not exist yet.
func mustOpenCache(lib library) *storage.DB {
	dbPath := config.DBPath(lib.root)
	db, err := storage.OpenExisting(dbPath)
	if err == nil {
		return db
	}
	if !errors.Is(err, storage.ErrCacheNotFound) {
		exitWithError(ExitError, "opening search cache: %v", err)
	}

	if _, err := refreshCache(lib.root, lib.openStore().Snapshot()); err != nil {
		exitWithError(ExitError, "building search cache: %v", err)
	}
	db, err = storage.OpenExisting(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening search cache: %v", err)
	}
	return db
}
