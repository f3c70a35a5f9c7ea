package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register() // must not panic on duplicate registration
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/papers/{filename}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/papers/{filename}", "404"))

	req := httptest.NewRequest(http.MethodGet, "/papers/some-file.pdf", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/papers/{filename}", "404"))
	if after-before != 1 {
		t.Errorf("http_requests_total delta = %v, want 1", after-before)
	}
}

func TestStatusWriter_DefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	if _, err := w.Write([]byte("ok")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	w.WriteHeader(http.StatusTeapot) // ignored after first write

	if w.status != http.StatusOK {
		t.Errorf("status = %d, want 200", w.status)
	}
}
