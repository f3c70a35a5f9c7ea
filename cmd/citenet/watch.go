package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/api"
	"github.com/matsen/citenet/internal/metrics"
	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/scanner"
)

const shutdownTimeout = 10 * time.Second

var (
	watchAddr    string
	watchNoHTTP  bool
	watchNoCache bool
)

func init() {
	watchCmd.Flags().StringVar(&watchAddr, "addr", "", "HTTP listen address (default: config http_addr)")
	watchCmd.Flags().BoolVar(&watchNoHTTP, "no-http", false, "Do not serve the read API")
	watchCmd.Flags().BoolVar(&watchNoCache, "no-cache", false, "Do not refresh the search cache after each cycle")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Index the library continuously and serve the read API",
	Long: `Scan the library now and then every scan_interval, indexing new documents
and rebuilding the citation graph. The read API is served over HTTP until
SIGINT or SIGTERM:

  GET /papers             summaries of all papers
  GET /papers/{filename}  one full record
  GET /graph              citation edges
  GET /graph/view         interactive graph page
  GET /healthz            liveness
  GET /metrics            Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	lib := mustOpenLibrary()
	log := lib.log
	defer log.Sync()

	metrics.Register()

	st := lib.openStore()
	log.Info("library opened",
		zap.String("root", lib.root),
		zap.Int("papers", st.Len()))

	var opts []scanner.Option
	if !watchNoCache {
		opts = append(opts, scanner.WithAfterCycle(func(_ context.Context, records map[string]paper.Paper) {
			if _, err := refreshCache(lib.root, records); err != nil {
				log.Warn("query cache refresh failed", zap.Error(err))
			}
		}))
	}
	sched := lib.newScheduler(st, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	serveErr := make(chan error, 1)
	if !watchNoHTTP {
		addr := watchAddr
		if addr == "" {
			addr = lib.cfg.HTTPAddrOrDefault()
		}
		srv = &http.Server{
			Addr:              addr,
			Handler:           api.NewServer(st, log).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("starting HTTP server", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()
	}

	schedDone := make(chan error, 1)
	go func() {
		schedDone <- sched.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-serveErr:
		log.Error("HTTP server error", zap.Error(err))
		stop()
	}

	// Run returns once the current document finishes.
	<-schedDone

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error during shutdown", zap.Error(err))
		}
	}

	if err := st.Save(); err != nil {
		log.Error("final index save failed", zap.Error(err))
		exitWithError(ExitDataError, "saving index: %v", err)
	}
	log.Info("stopped", zap.Int("papers", st.Len()))
	return nil
}
