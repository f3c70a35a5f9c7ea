package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/export"
	"github.com/matsen/citenet/internal/paper"
)

var (
	exportBibtex bool
	exportAppend string
	exportKeys   string
)

func init() {
	exportCmd.Flags().BoolVar(&exportBibtex, "bibtex", false, "Export to BibTeX format")
	exportCmd.Flags().StringVar(&exportAppend, "append", "", "Append new entries to this .bib file, skipping ones already present")
	exportCmd.Flags().StringVar(&exportKeys, "keys", "", "Export only these filenames (comma-separated)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed papers",
	Long: `Export indexed papers as full JSON records or BibTeX.

BibTeX keys are derived from filenames. With --append, entries whose key or
Semantic Scholar ID already appears in the target file are skipped.

Examples:
  citenet export > library.json
  citenet export --bibtex > library.bib
  citenet export --bibtex --append refs.bib
  citenet export --bibtex --keys attention.pdf,bert.pdf`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// AppendResult is the response for export --append.
type AppendResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportAppend != "" && !exportBibtex {
		exitWithError(ExitError, "--append requires --bibtex")
	}

	lib := mustOpenLibrary()
	st := lib.openStore()

	var papers []paper.Paper
	if exportKeys != "" {
		for _, key := range strings.Split(exportKeys, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			p, ok := st.Lookup(key)
			if !ok {
				exitWithError(ExitError, "paper not found: %s", key)
			}
			papers = append(papers, p)
		}
	} else {
		for _, s := range st.Summaries() {
			p, _ := st.Lookup(s.Filename)
			papers = append(papers, p)
		}
	}

	if !exportBibtex {
		if papers == nil {
			papers = []paper.Paper{}
		}
		outputJSON(papers)
		return nil
	}

	if exportAppend == "" {
		fmt.Print(export.ToBibTeXList(papers))
		return nil
	}

	idx, err := export.ParseBibTeXFile(exportAppend)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", exportAppend, err)
	}
	var fresh []paper.Paper
	for _, p := range papers {
		if !idx.HasEntry(export.CiteKey(p.Filename), p.ExternalID) {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) > 0 {
		if err := export.AppendToBibFile(exportAppend, export.ToBibTeXList(fresh)); err != nil {
			exitWithError(ExitError, "writing %s: %v", exportAppend, err)
		}
	}

	res := AppendResult{Status: "appended", Path: exportAppend, Added: len(fresh), Skipped: len(papers) - len(fresh)}
	if humanOutput {
		outputHuman("Added %d entries to %s (%d already present)\n", res.Added, res.Path, res.Skipped)
	} else {
		outputJSON(res)
	}
	return nil
}
