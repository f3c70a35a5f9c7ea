package storage

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matsen/citenet/internal/paper"
)

func testRecords() map[string]paper.Paper {
	mk := func(filename, title string, authors []string, abstract, year string, cites, citedBy []string) paper.Paper {
		p := paper.New(filename, "/lib/"+filename)
		p.Title = title
		p.Authors = authors
		p.Abstract = abstract
		p.Year = year
		p.Cites = cites
		p.CitedBy = citedBy
		return p
	}
	return map[string]paper.Paper{
		"attention.pdf": mk("attention.pdf", "Attention Is All You Need",
			[]string{"Ashish Vaswani", "Noam Shazeer"}, "The dominant sequence transduction models.", "2017",
			[]string{"seq2seq.pdf"}, []string{"bert.pdf"}),
		"bert.pdf": mk("bert.pdf", "BERT: Pre-training of Deep Bidirectional Transformers",
			[]string{"Jacob Devlin"}, "Language representation model.", "2019",
			[]string{"attention.pdf", "seq2seq.pdf"}, []string{}),
		"seq2seq.pdf": mk("seq2seq.pdf", "Sequence to Sequence Learning with Neural Networks",
			[]string{"Ilya Sutskever"}, "", "2014",
			[]string{}, []string{"attention.pdf", "bert.pdf"}),
		"untitled.pdf": mk("untitled.pdf", "", nil, "", "", []string{}, []string{}),
	}
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "cache", "papers.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromIndex(testRecords())
	if err != nil {
		t.Fatalf("RebuildFromIndex() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("RebuildFromIndex() = %d, want 4", n)
	}
	return db
}

func filenames(sums []paper.Summary) []string {
	out := make([]string, len(sums))
	for i, s := range sums {
		out[i] = s.Filename
	}
	return out
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"attention", []string{"attention.pdf"}},
		{"sequence", []string{"attention.pdf", "seq2seq.pdf"}},
		{"vaswani", []string{"attention.pdf"}},
		{"BERT: Pre-training", []string{"bert.pdf"}},
		{"nonexistentterm", []string{}},
		{"   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			names := filenames(got)
			slices.Sort(names)
			if !slices.Equal(names, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, names, tt.want)
			}
		})
	}
}

func TestSearch_SummaryFields(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.Search("devlin", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results", len(got))
	}
	s := got[0]
	if s.Title != "BERT: Pre-training of Deep Bidirectional Transformers" || s.Year != "2019" {
		t.Errorf("summary = %+v", s)
	}
	if s.CitesCount != 2 || s.CitedByCount != 0 {
		t.Errorf("counts = %d/%d", s.CitesCount, s.CitedByCount)
	}
	if !slices.Equal(s.Authors, []string{"Jacob Devlin"}) {
		t.Errorf("authors = %v", s.Authors)
	}
}

func TestSearch_Limit(t *testing.T) {
	db := setupTestDB(t)
	got, err := db.Search("pdf", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSearchField(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.SearchField("author", "sutskever", 10)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(filenames(got), []string{"seq2seq.pdf"}) {
		t.Errorf("author search = %v", filenames(got))
	}

	// "sequence" appears in the attention abstract but only the seq2seq title.
	got, err = db.SearchField("title", "sequence", 10)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(filenames(got), []string{"seq2seq.pdf"}) {
		t.Errorf("title search = %v", filenames(got))
	}

	if _, err := db.SearchField("venue", "x", 10); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestListAllAndCount(t *testing.T) {
	db := setupTestDB(t)

	all, err := db.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"attention.pdf", "bert.pdf", "seq2seq.pdf", "untitled.pdf"}
	if !slices.Equal(filenames(all), want) {
		t.Errorf("ListAll() = %v", filenames(all))
	}
	if all[3].Title != "untitled.pdf" {
		t.Errorf("blank title should fall back to filename, got %q", all[3].Title)
	}
	if all[3].Authors == nil {
		t.Error("authors should be non-nil")
	}

	n, err := db.Count()
	if err != nil || n != 4 {
		t.Errorf("Count() = %d, %v", n, err)
	}
}

func TestCitations(t *testing.T) {
	db := setupTestDB(t)

	by, err := db.CitedBy("seq2seq.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(by, []string{"attention.pdf", "bert.pdf"}) {
		t.Errorf("CitedBy() = %v", by)
	}

	cites, err := db.Cites("bert.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(cites, []string{"attention.pdf", "seq2seq.pdf"}) {
		t.Errorf("Cites() = %v", cites)
	}

	none, err := db.CitedBy("bert.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("CitedBy(bert) = %#v, want empty", none)
	}

	n, err := db.CitationCount()
	if err != nil || n != 3 {
		t.Errorf("CitationCount() = %d, %v", n, err)
	}
}

func TestRebuildFromIndex_Replaces(t *testing.T) {
	db := setupTestDB(t)

	recs := testRecords()
	delete(recs, "bert.pdf")
	a := recs["attention.pdf"]
	a.CitedBy = []string{}
	recs["attention.pdf"] = a

	n, err := db.RebuildFromIndex(recs)
	if err != nil || n != 3 {
		t.Fatalf("RebuildFromIndex() = %d, %v", n, err)
	}

	if got, _ := db.Search("devlin", 10); len(got) != 0 {
		t.Errorf("stale FTS rows remain: %v", filenames(got))
	}
	if n, _ := db.CitationCount(); n != 1 {
		t.Errorf("CitationCount() = %d, want 1", n)
	}
}

func TestOpenExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.db")
	if _, err := OpenExisting(path); !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("OpenExisting() error = %v, want ErrCacheNotFound", err)
	}

	db, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = OpenExisting(path)
	if err != nil {
		t.Fatalf("OpenExisting() after create error = %v", err)
	}
	db.Close()
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"deep learning", "deep learning"},
		{"  spaced  ", "spaced"},
		{"", ""},
		{"BERT: pre-training", `"BERT: pre-training"`},
		{`say "hi"`, `"say ""hi"""`},
		{"o'brien", `"o'brien"`},
	}
	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumnFilter(t *testing.T) {
	if got := columnFilter("title", "deep learning"); got != "title:deep AND title:learning" {
		t.Errorf("columnFilter() = %q", got)
	}
	if got := columnFilter("title", `"a-b"`); got != `title:"a-b"` {
		t.Errorf("columnFilter() = %q", got)
	}
}
