package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/citegraph"
	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	st := store.Open(filepath.Join(t.TempDir(), "papers_index.json"), zap.NewNop())

	a := paper.New("a.pdf", "/lib/a.pdf")
	a.References = []paper.Reference{{Text: "Some Paper Title Here"}}
	b := paper.New("b.pdf", "/lib/b.pdf")
	b.Title = "Some Paper Title Here"
	b.ExternalID = "S2-B"
	k := paper.New("논문 초안.pdf", "/lib/논문 초안.pdf")
	st.Put(a)
	st.Put(b)
	st.Put(k)
	st.PublishEdges(citegraph.Rebuild(st.Snapshot()))

	return NewServer(st, zap.NewNop()).Router()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListPapers(t *testing.T) {
	rec := get(t, newTestServer(t), "/papers")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var sums []paper.Summary
	if err := json.NewDecoder(rec.Body).Decode(&sums); err != nil {
		t.Fatal(err)
	}
	if len(sums) != 3 {
		t.Fatalf("len = %d, want 3", len(sums))
	}
	if sums[0].Filename != "a.pdf" || sums[0].CitesCount != 1 {
		t.Errorf("sums[0] = %+v", sums[0])
	}
	if sums[1].Filename != "b.pdf" || sums[1].CitedByCount != 1 {
		t.Errorf("sums[1] = %+v", sums[1])
	}
}

func TestGetPaper(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/papers/b.pdf")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var p paper.Paper
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Title != "Some Paper Title Here" || p.ExternalID != "S2-B" {
		t.Errorf("paper = %+v", p)
	}
	if len(p.CitedBy) != 1 || p.CitedBy[0] != "a.pdf" {
		t.Errorf("CitedBy = %v", p.CitedBy)
	}
}

func TestGetPaper_EscapedName(t *testing.T) {
	rec := get(t, newTestServer(t), "/papers/"+url.PathEscape("논문 초안.pdf"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "논문 초안") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestGetPaper_ReservedCharacters(t *testing.T) {
	st := store.Open(filepath.Join(t.TempDir(), "papers_index.json"), zap.NewNop())
	names := []string{
		"GPT-4, report.pdf",
		"a+b notes.pdf",
		"Smith (2020) attention.pdf",
		"100% done.pdf",
	}
	for _, name := range names {
		st.Put(paper.New(name, "/lib/"+name))
	}
	h := NewServer(st, zap.NewNop()).Router()

	tests := []struct {
		path string
		want string
	}{
		{"/papers/GPT-4%2C%20report.pdf", "GPT-4, report.pdf"},
		{"/papers/a%2Bb%20notes.pdf", "a+b notes.pdf"},
		{"/papers/Smith%20%282020%29%20attention.pdf", "Smith (2020) attention.pdf"},
		{"/papers/100%25%20done.pdf", "100% done.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			var p paper.Paper
			if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if p.Filename != tt.want {
				t.Errorf("Filename = %q, want %q", p.Filename, tt.want)
			}
		})
	}
}

func TestGetPaper_MalformedEscape(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/papers/x.pdf", nil)
	req.URL.Path = "/papers/bad%zz.pdf"
	req.URL.RawPath = "/papers/bad%zz.pdf"
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var e ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Code != "bad_request" {
		t.Errorf("code = %q", e.Code)
	}
}

func TestGetPaper_NotFound(t *testing.T) {
	rec := get(t, newTestServer(t), "/papers/missing.pdf")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var e ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatal(err)
	}
	if e.Code != "paper_not_found" {
		t.Errorf("code = %q", e.Code)
	}
}

func TestGraph(t *testing.T) {
	rec := get(t, newTestServer(t), "/graph")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var edges []citegraph.Edge
	if err := json.NewDecoder(rec.Body).Decode(&edges); err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 || edges[0] != (citegraph.Edge{Source: "a.pdf", Target: "b.pdf"}) {
		t.Errorf("edges = %v", edges)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"papers":3`) {
		t.Errorf("body = %s", rec.Body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := get(t, h, "/")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal_error") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestGraphView(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/graph/view?layout=tree")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "breadthfirst") {
		t.Error("layout not applied")
	}

	rec = get(t, h, "/graph/view?layout=spiral")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid layout status = %d, want 400", rec.Code)
	}
}
