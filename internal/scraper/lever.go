package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"jobmate/ats-ingest/internal/model"
)

const (
	DefaultLeverAPI = "https://api.lever.co/v0"
	leverJobsHost   = "https://jobs.lever.co"
)

// LeverAdapter reads the public postings endpoint, which answers with a
// flat JSON array instead of an object with a "jobs" key.
//
//	GET {base}/postings/{company}?mode=json
type LeverAdapter struct {
	baseURL string
	http    getter
	log     *slog.Logger
}

// NewLeverAdapter returns an adapter for the secondary-api platform.
func NewLeverAdapter(baseURL string, o Options) *LeverAdapter {
	if baseURL == "" {
		baseURL = DefaultLeverAPI
	}
	return &LeverAdapter{
		baseURL: baseURL,
		http:    newGetter(o),
		log:     o.logger().With("component", "lever"),
	}
}

func (a *LeverAdapter) Platform() model.Platform { return model.PlatformSecondaryAPI }

func (a *LeverAdapter) Fetch(ctx context.Context, company string) Outcome {
	endpoint := fmt.Sprintf("%s/postings/%s?mode=json", a.baseURL, url.PathEscape(company))

	body, err := a.http.get(ctx, endpoint, "application/json")
	if err != nil {
		return failed(a.log, a.Platform(), company, err)
	}

	var postings []any
	if err := decodeJSON(body, &postings); err != nil {
		return failed(a.log, a.Platform(), company, fmt.Errorf("json unmarshal: %w", err))
	}

	jobs := make([]model.Job, 0, len(postings))
	for _, p := range postings {
		job, ok := a.toJob(company, asFields(p))
		if !ok {
			a.log.Debug("dropping posting without apply url", "employer", company)
			continue
		}
		jobs = append(jobs, job)
	}

	a.log.Info("postings fetched", "employer", company, "jobs", len(jobs))
	return Outcome{Jobs: jobs}
}

func (a *LeverAdapter) toJob(company string, f fields) (model.Job, bool) {
	href := f.str("hostedUrl")
	if href == "" {
		href = f.str("applyUrl")
	}
	applyURL := absoluteURL(leverJobsHost+"/"+url.PathEscape(company)+"/", href)
	if applyURL == "" {
		return model.Job{}, false
	}

	categories := f.obj("categories")
	location := categories.optStr("location")
	department := categories.optStr("team")
	if department == nil {
		department = categories.optStr("department")
	}

	description := f.str("descriptionPlain")

	requirements := make([]string, 0)
	for _, l := range f.list("lists") {
		requirements = append(requirements, listItems(asFields(l).str("content"))...)
	}
	if len(requirements) == 0 {
		requirements = bulletLines(description)
	}

	remote := containsFold(description, "remote")
	if location != nil && containsFold(*location, "remote") {
		remote = true
	}

	minPay, maxPay := salaryRange(f.obj("salaryRange"))

	return model.Job{
		Title:          f.str("text"),
		Company:        company,
		Location:       location,
		Department:     department,
		Description:    description,
		Requirements:   requirements,
		SalaryMin:      minPay,
		SalaryMax:      maxPay,
		Remote:         remote,
		PostedAt:       f.opaque("createdAt"),
		ApplyURL:       applyURL,
		SourcePlatform: model.PlatformSecondaryAPI,
	}, true
}

// salaryRange reads {"min": n, "max": n}. A lone bound fills both sides.
func salaryRange(r fields) (min, max *int) {
	lo, hi := r.int64("min"), r.int64("max")
	switch {
	case lo == nil && hi == nil:
		return nil, nil
	case lo == nil:
		lo = hi
	case hi == nil:
		hi = lo
	}
	l, h := int(*lo), int(*hi)
	return &l, &h
}
