package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/citegraph"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the citation graph and the search cache",
	Long: `Recompute every cites and cited_by list from the stored reference lists,
save the index and rebuild the SQLite search cache. No documents are read and
no network requests are made.

Use this after editing papers_index.json by hand or if the cache is corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Papers int    `json:"papers"`
	Edges  int    `json:"edges"`
	Cached int    `json:"cached"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	lib := mustOpenLibrary()
	st := lib.openStore()

	rebuilt := citegraph.Rebuild(st.Snapshot())
	st.PublishEdges(rebuilt)
	if err := st.Save(); err != nil {
		exitWithError(ExitDataError, "saving index: %v", err)
	}

	records := st.Snapshot()
	cached, err := refreshCache(lib.root, records)
	if err != nil {
		exitWithError(ExitError, "rebuilding search cache: %v", err)
	}

	res := RebuildResult{
		Status: "rebuilt",
		Papers: len(records),
		Edges:  len(citegraph.Edges(records)),
		Cached: cached,
	}
	if humanOutput {
		outputHuman("Rebuilt graph: %d papers, %d edges\n", res.Papers, res.Edges)
		outputHuman("Search cache holds %d papers\n", res.Cached)
	} else {
		outputJSON(res)
	}
	return nil
}
