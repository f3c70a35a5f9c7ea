package paper

import (
	"encoding/json"
	"testing"
)

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"attention.pdf", "attention"},
		{"Attention Is All You Need.PDF", "Attention Is All You Need"},
		{"v1.2.draft.pdf", "v1.2.draft"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
		{"딥러닝 기반 연구.pdf", "딥러닝 기반 연구"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := TitleFromFilename(tt.filename); got != tt.want {
				t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	p := New("a.pdf", "/lib/a.pdf")

	if p.Title != "a" {
		t.Errorf("Title = %q, want a", p.Title)
	}
	if p.Authors == nil || p.References == nil || p.Cites == nil || p.CitedBy == nil {
		t.Error("New() should initialize all slices to empty, not nil")
	}
	if p.HasExternalID() {
		t.Error("new record should not have an external ID")
	}
}

func TestSummarize(t *testing.T) {
	p := Paper{
		Filename: "b.pdf",
		Filepath: "/lib/b.pdf",
		Title:    "Some Paper Title Here",
		Authors:  []string{"Ada Lovelace"},
		Year:     "2020",
		Cites:    []string{"a.pdf", "c.pdf"},
		CitedBy:  []string{"d.pdf"},
	}

	s := p.Summarize()
	if s.Filename != "b.pdf" || s.Filepath != "/lib/b.pdf" {
		t.Errorf("identity fields not copied: %+v", s)
	}
	if s.CitesCount != 2 {
		t.Errorf("CitesCount = %d, want 2", s.CitesCount)
	}
	if s.CitedByCount != 1 {
		t.Errorf("CitedByCount = %d, want 1", s.CitedByCount)
	}
	if s.Year != "2020" {
		t.Errorf("Year = %q, want 2020", s.Year)
	}
}

func TestSummarize_EmptyTitleFallsBackToFilename(t *testing.T) {
	s := Paper{Filename: "x.pdf"}.Summarize()
	if s.Title != "x.pdf" {
		t.Errorf("Title = %q, want x.pdf", s.Title)
	}
	if s.Authors == nil {
		t.Error("Authors should be empty, not nil")
	}
}

func TestClone_Independent(t *testing.T) {
	p := Paper{
		Filename:   "a.pdf",
		Authors:    []string{"A"},
		References: []Reference{{Text: "ref one text"}},
		Cites:      []string{"b.pdf"},
		CitedBy:    []string{"c.pdf"},
	}

	c := p.Clone()
	c.Authors[0] = "changed"
	c.References[0].Text = "changed"
	c.Cites[0] = "changed"
	c.CitedBy[0] = "changed"

	if p.Authors[0] != "A" || p.References[0].Text != "ref one text" || p.Cites[0] != "b.pdf" || p.CitedBy[0] != "c.pdf" {
		t.Errorf("Clone() shares state with the original: %+v", p)
	}
}

func TestUnmarshal_Year(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `{"filename":"a.pdf","year":"2017"}`, "2017"},
		{"integer", `{"filename":"a.pdf","year":2017}`, "2017"},
		{"float", `{"filename":"a.pdf","year":2017.0}`, "2017"},
		{"null", `{"filename":"a.pdf","year":null}`, ""},
		{"missing", `{"filename":"a.pdf"}`, ""},
		{"empty string", `{"filename":"a.pdf","year":""}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Paper
			if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if p.Year != tt.want {
				t.Errorf("Year = %q, want %q", p.Year, tt.want)
			}
			if p.Filename != "a.pdf" {
				t.Errorf("Filename = %q, other fields lost", p.Filename)
			}
		})
	}
}

func TestUnmarshal_YearRejectsObject(t *testing.T) {
	var p Paper
	if err := json.Unmarshal([]byte(`{"year":{"v":1}}`), &p); err == nil {
		t.Error("expected error for object year")
	}
}

func TestMarshal_YearStaysString(t *testing.T) {
	p := New("a.pdf", "/lib/a.pdf")
	p.Year = "2016"
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var back Paper
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Year != "2016" || back.Filename != "a.pdf" {
		t.Errorf("round trip = %+v", back)
	}
}
