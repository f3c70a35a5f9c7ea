// Package api serves the read-only HTTP view of the library index.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/citegraph"
	"github.com/matsen/citenet/internal/metrics"
	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/store"
	"github.com/matsen/citenet/internal/viz"
)

// Reader is the read side of the index store.
type Reader interface {
	Get(filename string) (paper.Paper, error)
	Summaries() []paper.Summary
	Snapshot() map[string]paper.Paper
	Len() int
}

// Server handles the read API.
type Server struct {
	store  Reader
	logger *zap.Logger
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewServer creates an API server over the store.
func NewServer(st Reader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: st, logger: logger}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.Health)
	r.Get("/papers", s.ListPapers)
	r.Get("/papers/{filename}", s.GetPaper)
	r.Get("/graph", s.Graph)
	r.Get("/graph/view", s.GraphView)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// ListPapers handles GET /papers.
func (s *Server) ListPapers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Summaries())
}

// GetPaper handles GET /papers/{filename}.
func (s *Server) GetPaper(w http.ResponseWriter, r *http.Request) {
	filename, err := pathParam(r, "filename")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed filename escape")
		return
	}
	p, err := s.store.Get(filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "paper_not_found", "no paper named "+filename)
			return
		}
		s.logger.Error("get paper failed", zap.String("filename", filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Graph handles GET /graph.
func (s *Server) Graph(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, citegraph.Edges(s.store.Snapshot()))
}

// GraphView handles GET /graph/view, an interactive page of the citation graph.
// ?layout= picks force, circle, grid or tree; ?isolated=1 keeps uncited papers.
func (s *Server) GraphView(w http.ResponseWriter, r *http.Request) {
	opts := viz.DefaultOptions()
	if layout := r.URL.Query().Get("layout"); layout != "" {
		opts.Layout = layout
	}
	isolated := r.URL.Query().Get("isolated") != ""

	page, err := viz.GenerateHTML(viz.BuildGraph(s.store.Snapshot(), isolated), opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"papers": s.store.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// jsonRecoverer turns handler panics into a JSON 500.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic in handler",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
						zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
					writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one debug line per request and propagates X-Request-ID.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Debug("http_request",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

// pathParam returns a decoded URL parameter. chi matches against RawPath
// when the request's escaping is non-default, leaving the parameter
// percent-encoded; otherwise it is already decoded.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
