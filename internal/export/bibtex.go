// Package export writes indexed papers to other bibliography formats.
package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matsen/citenet/internal/paper"
)

// ToBibTeX converts an indexed paper to a BibTeX @misc entry. Papers
// resolved online carry their Semantic Scholar ID so re-exports dedupe.
func ToBibTeX(p paper.Paper) string {
	var b strings.Builder

	fmt.Fprintf(&b, "@misc{%s,\n", CiteKey(p.Filename))

	if len(p.Authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", escapeLatex(strings.Join(p.Authors, " and ")))
	}
	fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(p.Title))
	if p.Year != "" {
		fmt.Fprintf(&b, "  year = {%s},\n", p.Year)
	}
	if p.ExternalID != "" {
		fmt.Fprintf(&b, "  semanticscholar = {%s},\n", p.ExternalID)
	}
	if p.Abstract != "" {
		fmt.Fprintf(&b, "  abstract = {%s},\n", escapeLatex(p.Abstract))
	}
	if p.Filepath != "" {
		fmt.Fprintf(&b, "  file = {%s},\n", p.Filepath)
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple papers to BibTeX format.
func ToBibTeXList(papers []paper.Paper) string {
	entries := make([]string, 0, len(papers))
	for _, p := range papers {
		entries = append(entries, ToBibTeX(p))
	}
	return strings.Join(entries, "\n")
}

// CiteKey derives a citation key from a filename: the extension is dropped
// and every rune that is not a letter, digit, '-' or ':' becomes '_'.
func CiteKey(filename string) string {
	stem := paper.TitleFromFilename(filename)
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == ':' {
			return r
		}
		return '_'
	}, stem)
	if key == "" {
		return "paper"
	}
	return key
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
