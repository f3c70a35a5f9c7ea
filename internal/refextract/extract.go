package refextract

import (
	"strings"

	"github.com/matsen/citenet/internal/paper"
)

// TailPages is how many trailing pages are searched for a references section.
const TailPages = 20

// Extract returns text-only references found in the trailing pages of a
// document. It never fails: anything unexpected yields an empty slice.
func Extract(pages []string) (refs []paper.Reference) {
	refs = []paper.Reference{}
	defer func() {
		if recover() != nil {
			refs = []paper.Reference{}
		}
	}()

	section, ok := LocateSection(TailText(pages))
	if !ok {
		return refs
	}
	for _, e := range SplitEntries(section) {
		refs = append(refs, paper.Reference{Text: e})
	}
	return refs
}

// TailText joins the last TailPages pages with newlines.
func TailText(pages []string) string {
	if len(pages) > TailPages {
		pages = pages[len(pages)-TailPages:]
	}
	return strings.Join(pages, "\n")
}
