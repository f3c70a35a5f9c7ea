package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/indexer"
	"github.com/matsen/citenet/internal/refextract"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract the reference list from a PDF without network access",
	Long: `Run only the local reference extractor over the last pages of a PDF and
print the entries it finds. The index is not modified.

Example:
  citenet extract papers/attention.pdf --human`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractResult is the response for the extract command.
type ExtractResult struct {
	File       string   `json:"file"`
	Pages      int      `json:"pages"`
	Section    bool     `json:"section_found"`
	References []string `json:"references"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	pages, err := indexer.PDFPages(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}

	_, found := refextract.LocateSection(refextract.TailText(pages))
	refs := refextract.Extract(pages)

	res := ExtractResult{
		File:       path,
		Pages:      len(pages),
		Section:    found,
		References: make([]string, len(refs)),
	}
	for i, r := range refs {
		res.References[i] = r.Text
	}

	if !humanOutput {
		outputJSON(res)
		return nil
	}

	if !found {
		fmt.Printf("No reference section found in the last %d pages of %s\n", len(pages), path)
		return nil
	}
	fmt.Printf("%d references in %s:\n\n", len(res.References), path)
	for i, text := range res.References {
		fmt.Printf("  %3d. %s\n", i+1, wrapText(text, TextWrapWidth-5, "       "))
	}
	return nil
}
