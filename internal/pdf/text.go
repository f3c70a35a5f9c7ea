// Package pdf reads plain page text from PDF documents.
package pdf

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageTexts returns the plain text of every page, in order.
// Pages that fail to decode yield an empty string so page indices stay stable.
func PageTexts(filePath string) ([]string, error) {
	return TailPageTexts(filePath, 0)
}

// TailPageTexts returns the plain text of the last n pages, or of every page
// when n <= 0 or the document is shorter.
func TailPageTexts(filePath string, n int) (pages []string, err error) {
	// The decoder panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("reading %s: malformed PDF: %v", filePath, r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	first, last := tailRange(r.NumPage(), n)
	pages = make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		pages = append(pages, pageText(r, i))
	}
	return pages, nil
}

// tailRange returns the 1-based inclusive page range covering the last n of
// total pages. An empty document gives first > last.
func tailRange(total, n int) (first, last int) {
	if n <= 0 || n > total {
		return 1, total
	}
	return total - n + 1, total
}

func pageText(r *pdf.Reader, i int) string {
	page := r.Page(i)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
