// Package skills derives a categorized skills profile from free text.
//
// Matching is plain substring containment against a fixed vocabulary, not
// word-boundary matching: short tokens such as "go" also match inside longer
// words ("django", "mongodb"). Callers that need precision should post-filter.
package skills

import (
	"sort"
	"strings"

	"jobmate/ats-ingest/internal/model"
)

// Report is the skill profile of one text blob.
type Report = model.SkillReport

// Match returns every vocabulary token contained in text, sorted.
func Match(text string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0)
	for skill := range vocabulary {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}

// Normalize maps an alias to its canonical spelling. Input is lowercased and
// trimmed first; anything not in the alias table is returned in that form.
func Normalize(skill string) string {
	s := strings.ToLower(strings.TrimSpace(skill))
	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}

// Categorize partitions skills into named buckets. Each skill is placed in
// exactly one bucket and keeps its input order there. Empty buckets are left
// out of the result.
func Categorize(skills []string) map[string][]string {
	out := make(map[string][]string)
	for _, skill := range skills {
		name := CategoryOther
		for _, b := range buckets {
			if _, ok := b.members[skill]; ok {
				name = b.name
				break
			}
		}
		out[name] = append(out[name], skill)
	}
	return out
}

// ExtractFromJob runs match, normalize and categorize over text.
func ExtractFromJob(text string) Report {
	matched := Match(text)

	seen := make(map[string]struct{}, len(matched))
	canonical := make([]string, 0, len(matched))
	for _, m := range matched {
		n := Normalize(m)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		canonical = append(canonical, n)
	}
	sort.Strings(canonical)

	return Report{
		Skills:     canonical,
		Categories: Categorize(canonical),
		TotalCount: len(canonical),
	}
}

// ForJob attaches a report computed from the job's title, description and
// requirement lines. The job itself is copied unchanged.
func ForJob(job model.Job) model.EnrichedJob {
	parts := make([]string, 0, 2+len(job.Requirements))
	parts = append(parts, job.Title, job.Description)
	parts = append(parts, job.Requirements...)
	return model.EnrichedJob{
		Job:    job,
		Skills: ExtractFromJob(strings.Join(parts, "\n")),
	}
}
