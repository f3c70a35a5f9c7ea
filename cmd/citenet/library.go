package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/indexer"
	"github.com/matsen/citenet/internal/logger"
	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/s2"
	"github.com/matsen/citenet/internal/scanner"
	"github.com/matsen/citenet/internal/storage"
	"github.com/matsen/citenet/internal/store"
)

// library bundles what most commands need: the resolved library root, the
// global config and a logger.
type library struct {
	root string
	cfg  *config.GlobalConfig
	log  *zap.Logger
}

// mustOpenLibrary resolves the library root and loads configuration,
// exiting with ExitConfigError on failure.
func mustOpenLibrary() library {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	level := logLevelFlag
	if level == "" {
		level = cfg.LogLevelOrDefault()
	}
	log, err := logger.New(level)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	root, err := config.ResolveLibrary(libraryFlag)
	if err != nil {
		if errors.Is(err, config.ErrLibraryNotExist) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitConfigError, "resolving library: %v", err)
	}

	return library{root: root, cfg: cfg, log: log}
}

// openStore loads the index. A corrupt index is logged and treated as empty.
func (l library) openStore() *store.Store {
	return store.Open(config.IndexPath(l.root), l.log)
}

func (l library) newResolver() *s2.Resolver {
	client := s2.NewClient(
		s2.WithAPIKey(l.cfg.S2Key()),
		s2.WithTimeout(l.cfg.RequestTimeoutOrDefault()),
		s2.WithRequestInterval(l.cfg.RequestIntervalOrDefault()),
	)
	return s2.NewResolver(client, l.log)
}

func (l library) newScheduler(st *store.Store, opts ...scanner.Option) *scanner.Scheduler {
	ix := indexer.New(l.newResolver(), indexer.WithLogger(l.log))
	base := []scanner.Option{
		scanner.WithInterval(l.cfg.ScanIntervalOrDefault()),
		scanner.WithPatterns(l.cfg.ExtensionsOrDefault()),
		scanner.WithLogger(l.log),
	}
	return scanner.New(l.root, st, ix, append(base, opts...)...)
}

// refreshCache rebuilds the SQLite query cache from the given records.
func refreshCache(root string, records map[string]paper.Paper) (int, error) {
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return db.RebuildFromIndex(records)
}
