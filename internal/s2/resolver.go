package s2

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/paper"
)

// Resolver looks up library documents on Semantic Scholar. It never returns
// errors: every failure is logged and degrades to no match or no references.
type Resolver struct {
	client *Client
	log    *zap.Logger
	limit  int
}

// NewResolver wraps a client. A nil logger is replaced by a no-op logger.
func NewResolver(client *Client, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{client: client, log: log, limit: DefaultReferencesLimit}
}

// ResolveByTitle searches for title and returns the top hit.
func (r *Resolver) ResolveByTitle(ctx context.Context, title string) (paper.Match, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return paper.Match{}, false
	}

	resp, err := r.client.SearchPapers(ctx, title, 1)
	if err != nil {
		r.log.Warn("title search failed", zap.String("title", title), zap.Error(err))
		return paper.Match{}, false
	}
	if len(resp.Data) == 0 {
		r.log.Debug("no Semantic Scholar match", zap.String("title", title))
		return paper.Match{}, false
	}

	hit := resp.Data[0]
	if hit.PaperID == "" {
		// Metadata is still adopted; there are no references to fetch.
		r.log.Debug("search hit without paper id", zap.String("title", title))
	}

	m := paper.Match{
		ExternalID: hit.PaperID,
		Title:      hit.Title,
		Authors:    authorNames(hit.Authors),
		Abstract:   hit.Abstract,
		Year:       formatYear(hit.Year),
	}
	if m.Title == "" {
		m.Title = title
	}
	return m, true
}

// FetchReferences returns the reference list of a resolved paper.
func (r *Resolver) FetchReferences(ctx context.Context, externalID string) []paper.Reference {
	refs := []paper.Reference{}
	if externalID == "" {
		return refs
	}

	resp, err := r.client.GetReferences(ctx, externalID, r.limit)
	if err != nil {
		r.log.Warn("fetching references failed", zap.String("paper_id", externalID), zap.Error(err))
		return refs
	}

	for _, item := range resp.Data {
		if item.CitedPaper == nil {
			continue
		}
		cp := item.CitedPaper
		refs = append(refs, paper.Reference{
			Text:       FormatReferenceText(cp),
			Title:      cp.Title,
			ExternalID: cp.PaperID,
		})
	}
	return refs
}

// FormatReferenceText renders "<authors> (<year>). <title>".
func FormatReferenceText(p *S2Paper) string {
	return strings.Join(authorNames(p.Authors), ", ") + " (" + formatYear(p.Year) + "). " + p.Title
}

func authorNames(authors []S2Author) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

func formatYear(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}
