// Package model defines shared data structures for the ingest service.
package model

import "fmt"

// Platform identifies which adapter produced (or should produce) a record.
type Platform string

const (
	PlatformStructuredAPI Platform = "structured-api"
	PlatformSecondaryAPI  Platform = "secondary-api"
	PlatformHTMLFallback  Platform = "html-fallback"
)

// ParsePlatform converts a raw string to a Platform, returning an error for
// unknown values. Matching is exact.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	switch p {
	case PlatformStructuredAPI, PlatformSecondaryAPI, PlatformHTMLFallback:
		return p, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Employer is one entry of a batch: a display label, the ATS platform the
// employer publishes on, and the board identifier used against that ATS.
type Employer struct {
	Label      string   `json:"label" yaml:"label"`
	Platform   Platform `json:"platform" yaml:"platform"`
	Identifier string   `json:"identifier" yaml:"identifier"`
}

// Job is the canonical record every adapter converges to.
// Optional fields are pointers and serialise as null when absent; an empty
// string is a distinct, meaningful value.
//
// A Job is built once by an adapter and not modified afterwards.
type Job struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       *string  `json:"location"`
	Department     *string  `json:"department"`
	Description    string   `json:"description"`
	Requirements   []string `json:"requirements"`
	SalaryMin      *int     `json:"salary_min"`
	SalaryMax      *int     `json:"salary_max"`
	Remote         bool     `json:"remote"`
	PostedAt       *string  `json:"posted_at"`
	ApplyURL       string   `json:"apply_url"`
	SourcePlatform Platform `json:"source_platform"`
	JobID          *int64   `json:"job_id"`
}

// DedupKey returns the (company, apply_url) pair that identifies a posting
// across runs.
func (j Job) DedupKey() string {
	return j.Company + "|" + j.ApplyURL
}

// SkillReport is the derived skills profile of one text blob.
type SkillReport struct {
	Skills     []string            `json:"skills"`
	Categories map[string][]string `json:"categories"`
	TotalCount int                 `json:"total_count"`
}

// EnrichedJob pairs a Job with the skill report computed from it. The report
// sits alongside the record rather than inside it.
type EnrichedJob struct {
	Job    Job         `json:"job"`
	Skills SkillReport `json:"skills"`
}
