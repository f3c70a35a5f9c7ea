// Package indexer builds the record for one newly discovered document.
package indexer

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/pdf"
	"github.com/matsen/citenet/internal/refextract"
)

// Resolver looks up bibliographic metadata. Implementations swallow their
// own failures: no match and no references are the only failure signals.
type Resolver interface {
	ResolveByTitle(ctx context.Context, title string) (paper.Match, bool)
	FetchReferences(ctx context.Context, externalID string) []paper.Reference
}

// PageReader returns the plain text of a document's trailing pages.
type PageReader func(path string) ([]string, error)

// PDFPages reads the pages the local extractor searches.
func PDFPages(path string) ([]string, error) {
	return pdf.TailPageTexts(path, refextract.TailPages)
}

// Indexer turns a file path into a complete record.
type Indexer struct {
	resolver Resolver
	pages    PageReader
	log      *zap.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithPageReader replaces the PDF page reader.
func WithPageReader(r PageReader) Option {
	return func(ix *Indexer) {
		ix.pages = r
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(ix *Indexer) {
		if log != nil {
			ix.log = log
		}
	}
}

// New creates an Indexer backed by the given resolver.
func New(resolver Resolver, opts ...Option) *Indexer {
	ix := &Indexer{
		resolver: resolver,
		pages:    PDFPages,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// IndexOne resolves the document by its filename-derived title. On a match
// it adopts the remote metadata and reference list; otherwise it keeps the
// filename title and extracts references from the document text.
// The record is returned, never persisted.
func (ix *Indexer) IndexOne(ctx context.Context, path string) paper.Paper {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := paper.New(filepath.Base(path), abs)

	if m, ok := ix.resolver.ResolveByTitle(ctx, p.Title); ok {
		p.Title = m.Title
		if m.Authors != nil {
			p.Authors = m.Authors
		}
		p.Abstract = m.Abstract
		p.Year = m.Year
		p.ExternalID = m.ExternalID
		p.References = ix.resolver.FetchReferences(ctx, m.ExternalID)
		if p.References == nil {
			p.References = []paper.Reference{}
		}
		ix.log.Info("indexed from Semantic Scholar",
			zap.String("file", p.Filename),
			zap.String("paper_id", p.ExternalID),
			zap.Int("references", len(p.References)))
		return p
	}

	p.References = ix.localReferences(abs)
	ix.log.Info("no Semantic Scholar match, using local fallback",
		zap.String("file", p.Filename),
		zap.Int("references", len(p.References)))
	return p
}

func (ix *Indexer) localReferences(path string) []paper.Reference {
	pages, err := ix.pages(path)
	if err != nil {
		ix.log.Warn("reading document text failed", zap.String("path", path), zap.Error(err))
		return []paper.Reference{}
	}
	return refextract.Extract(pages)
}
