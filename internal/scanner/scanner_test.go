package scanner

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListCandidates(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.pdf", "a.pdf", "C.PDF", "notes.txt", "paper.pdf.md", "논문.pdf")
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "sub.pdf"), "nested.pdf")

	got, err := ListCandidates(dir, DefaultPatterns)
	if err != nil {
		t.Fatalf("ListCandidates() error = %v", err)
	}
	want := []string{"C.PDF", "a.pdf", "b.pdf", "논문.pdf"}
	if !slices.Equal(got, want) {
		t.Errorf("ListCandidates() = %v, want %v", got, want)
	}
}

func TestListCandidates_MissingDir(t *testing.T) {
	if _, err := ListCandidates(filepath.Join(t.TempDir(), "nope"), DefaultPatterns); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{"paper.pdf", []string{"*.pdf"}, true},
		{"Paper.PDF", []string{"*.pdf"}, true},
		{"paper.pdf", []string{"*.PDF"}, true},
		{"paper.djvu", []string{"*.pdf", "*.djvu"}, true},
		{"paper.txt", []string{"*.pdf"}, false},
		{"paper.pdf", nil, false},
		{"draft-2024.pdf", []string{"draft-*.pdf"}, true},
		{"final.pdf", []string{"draft-*.pdf"}, false},
		{"x.pdf", []string{"[invalid"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.name, tt.patterns); got != tt.want {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.name, tt.patterns, got, tt.want)
			}
		})
	}
}
