package scanner

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/citegraph"
	"github.com/matsen/citenet/internal/metrics"
	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/store"
)

// DefaultInterval is the pause between cycles.
const DefaultInterval = 10 * time.Second

// Indexer builds the record for one new file.
type Indexer interface {
	IndexOne(ctx context.Context, path string) paper.Paper
}

// ProgressFunc is called after each new file is committed.
type ProgressFunc func(done, total int, filename string)

// AfterCycleFunc receives the records after a completed rebuild.
type AfterCycleFunc func(ctx context.Context, records map[string]paper.Paper)

// CycleResult summarizes one cycle.
type CycleResult struct {
	Candidates int           `json:"candidates"`
	Indexed    []string      `json:"indexed"`
	Papers     int           `json:"papers"`
	Edges      int           `json:"edges"`
	SaveErrors int           `json:"save_errors"`
	Duration   time.Duration `json:"duration_ns"`
}

// Scheduler owns the write path of a store: it indexes new files one at a
// time, rebuilds the citation graph and saves after every change.
type Scheduler struct {
	dir        string
	store      *store.Store
	indexer    Indexer
	interval   time.Duration
	patterns   []string
	log        *zap.Logger
	progress   ProgressFunc
	afterCycle AfterCycleFunc
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the pause between cycles.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithPatterns sets the document file patterns.
func WithPatterns(patterns []string) Option {
	return func(s *Scheduler) {
		if len(patterns) > 0 {
			s.patterns = patterns
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithProgress registers a per-file progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Scheduler) {
		s.progress = fn
	}
}

// WithAfterCycle registers a hook run after each completed cycle.
func WithAfterCycle(fn AfterCycleFunc) Option {
	return func(s *Scheduler) {
		s.afterCycle = fn
	}
}

// New creates a scheduler for the library at dir.
func New(dir string, st *store.Store, ix Indexer, opts ...Option) *Scheduler {
	s := &Scheduler{
		dir:      dir,
		store:    st,
		indexer:  ix,
		interval: DefaultInterval,
		patterns: DefaultPatterns,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the pause between cycles.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run executes a cycle immediately and then one per interval until ctx is
// cancelled. Cycle errors are logged and never stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started",
		zap.String("library", s.dir),
		zap.Duration("interval", s.interval))

	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("scan cycle failed", zap.Error(err))
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunOnce lists the library, indexes and commits every unseen file, then
// rebuilds the graph over all records and saves. Cancellation between files
// ends the cycle without a rebuild; a record whose indexing was interrupted
// is discarded so the file is picked up again next time.
func (s *Scheduler) RunOnce(ctx context.Context) (res CycleResult, err error) {
	start := time.Now()
	res.Indexed = []string{}
	defer func() {
		res.Duration = time.Since(start)
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.ScanCyclesTotal.WithLabelValues(status).Inc()
		metrics.ScanCycleDuration.Observe(res.Duration.Seconds())
	}()

	names, err := ListCandidates(s.dir, s.patterns)
	if err != nil {
		return res, err
	}
	res.Candidates = len(names)

	var fresh []string
	for _, name := range names {
		if !s.store.Has(name) {
			fresh = append(fresh, name)
		}
	}
	if len(fresh) > 0 {
		s.log.Info("new documents found", zap.Int("count", len(fresh)))
	}

	for i, name := range fresh {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		p := s.indexer.IndexOne(ctx, filepath.Join(s.dir, name))
		if err := ctx.Err(); err != nil {
			s.log.Info("indexing interrupted, record discarded", zap.String("file", name))
			return res, err
		}

		s.store.Put(p)
		s.save(&res)
		res.Indexed = append(res.Indexed, p.Filename)

		source := "local"
		if p.HasExternalID() {
			source = "s2"
		}
		metrics.PapersIndexedTotal.WithLabelValues(source).Inc()

		if s.progress != nil {
			s.progress(i+1, len(fresh), name)
		}
	}

	rebuilt := citegraph.Rebuild(s.store.Snapshot())
	s.store.PublishEdges(rebuilt)
	s.save(&res)

	res.Papers = len(rebuilt)
	res.Edges = len(citegraph.Edges(rebuilt))
	metrics.LibraryPapers.Set(float64(res.Papers))
	metrics.GraphEdges.Set(float64(res.Edges))

	if s.afterCycle != nil {
		s.afterCycle(ctx, rebuilt)
	}
	return res, nil
}

func (s *Scheduler) save(res *CycleResult) {
	if err := s.store.Save(); err != nil {
		res.SaveErrors++
		metrics.StoreSaveErrorsTotal.Inc()
		s.log.Error("saving index failed, keeping in-memory state",
			zap.String("path", s.store.Path()), zap.Error(err))
	}
}
