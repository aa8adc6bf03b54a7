package scraper

import (
	"strings"

	"jobmate/ats-ingest/internal/model"
)

// RedFlags is a set of lowercased exclusion terms. The worker drops any
// posting that mentions one before it reaches the sink.
type RedFlags []string

// NewRedFlags folds and trims terms, dropping blanks and repeats.
func NewRedFlags(terms []string) RedFlags {
	seen := make(map[string]struct{}, len(terms))
	out := make(RedFlags, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Match reports the first term found (case-insensitive substring) in the
// posting's title, company, description or requirement lines.
func (r RedFlags) Match(job model.Job) (string, bool) {
	if len(r) == 0 {
		return "", false
	}
	text := strings.ToLower(strings.Join(
		append([]string{job.Title, job.Company, job.Description}, job.Requirements...), "\n"))
	for _, term := range r {
		if strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}
