package scraper_test

import (
	"testing"

	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/scraper"
)

// ── RedFlags ─────────────────────────────────────────────────────────────────

func TestNewRedFlags(t *testing.T) {
	got := scraper.NewRedFlags([]string{" Unpaid ", "", "unpaid", "MLM", "  "})
	want := scraper.RedFlags{"unpaid", "mlm"}
	if len(got) != len(want) {
		t.Fatalf("NewRedFlags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NewRedFlags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRedFlags_Match(t *testing.T) {
	cases := []struct {
		name  string
		job   model.Job
		flags []string
		want  string
	}{
		{"no flags", model.Job{Title: "Engineer"}, nil, ""},
		{"title match", model.Job{Title: "Unpaid Intern"}, []string{"unpaid"}, "unpaid"},
		{"company match", model.Job{Title: "Engineer", Company: "Crypto Casino"}, []string{"casino"}, "casino"},
		{"description, mixed case", model.Job{Description: "Commission ONLY"}, []string{"Commission only"}, "commission only"},
		{"requirement line", model.Job{Requirements: []string{"Own car", "Door-to-door sales"}}, []string{"door-to-door"}, "door-to-door"},
		{"blank flags ignored", model.Job{Description: "anything"}, []string{"", "  "}, ""},
		{"no match", model.Job{Description: "salary and equity"}, []string{"unpaid", "mlm"}, ""},
	}
	for _, c := range cases {
		term, ok := scraper.NewRedFlags(c.flags).Match(c.job)
		if ok != (c.want != "") || term != c.want {
			t.Errorf("%s: Match = (%q, %v), want %q", c.name, term, ok, c.want)
		}
	}
}
