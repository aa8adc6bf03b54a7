package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/salary"
)

const DefaultGreenhouseAPI = "https://boards-api.greenhouse.io/v1"

// GreenhouseAdapter reads the documented Greenhouse job board API:
//
//	GET {base}/boards/{token}/jobs?content=true
//	GET {base}/boards/{token}/jobs/{id}
type GreenhouseAdapter struct {
	baseURL        string
	includeContent bool
	hostPattern    string // resolves relative absolute_url values
	http           getter
	log            *slog.Logger
}

// NewGreenhouseAdapter returns an adapter for the structured-api platform.
// hostPattern is the employer board host, e.g. "{token}.greenhouse.io".
func NewGreenhouseAdapter(baseURL, hostPattern string, includeContent bool, o Options) *GreenhouseAdapter {
	if baseURL == "" {
		baseURL = DefaultGreenhouseAPI
	}
	if hostPattern == "" {
		hostPattern = DefaultBoardHostPattern
	}
	return &GreenhouseAdapter{
		baseURL:        baseURL,
		includeContent: includeContent,
		hostPattern:    hostPattern,
		http:           newGetter(o),
		log:            o.logger().With("component", "greenhouse"),
	}
}

func (a *GreenhouseAdapter) Platform() model.Platform { return model.PlatformStructuredAPI }

// Fetch lists all open postings on the board.
func (a *GreenhouseAdapter) Fetch(ctx context.Context, token string) Outcome {
	endpoint := fmt.Sprintf("%s/boards/%s/jobs", a.baseURL, url.PathEscape(token))
	if a.includeContent {
		endpoint += "?content=true"
	}

	body, err := a.http.get(ctx, endpoint, "application/json")
	if err != nil {
		return failed(a.log, a.Platform(), token, err)
	}

	var board fields
	if err := decodeJSON(body, &board); err != nil {
		return failed(a.log, a.Platform(), token, fmt.Errorf("json unmarshal: %w", err))
	}

	raw := board.list("jobs")
	jobs := make([]model.Job, 0, len(raw))
	for _, item := range raw {
		job, ok := a.toJob(token, asFields(item))
		if !ok {
			a.log.Debug("dropping posting without apply url", "employer", token)
			continue
		}
		jobs = append(jobs, job)
	}

	a.log.Info("board fetched", "employer", token, "jobs", len(jobs))
	return Outcome{Jobs: jobs}
}

// FetchDetail reads a single posting, including its salary metadata.
// Unlike Fetch, errors are returned to the caller.
func (a *GreenhouseAdapter) FetchDetail(ctx context.Context, token string, jobID int64) (model.Job, error) {
	endpoint := fmt.Sprintf("%s/boards/%s/jobs/%s",
		a.baseURL, url.PathEscape(token), strconv.FormatInt(jobID, 10))

	body, err := a.http.get(ctx, endpoint, "application/json")
	if err != nil {
		return model.Job{}, err
	}

	var posting fields
	if err := decodeJSON(body, &posting); err != nil {
		return model.Job{}, fmt.Errorf("json unmarshal: %w", err)
	}

	job, ok := a.toJob(token, posting)
	if !ok {
		return model.Job{}, fmt.Errorf("posting %d on %s has no apply url", jobID, token)
	}
	if job.JobID == nil {
		job.JobID = &jobID
	}
	return job, nil
}

func (a *GreenhouseAdapter) toJob(token string, f fields) (model.Job, bool) {
	applyURL := absoluteURL("https://"+BoardHost(a.hostPattern, token), f.str("absolute_url"))
	if applyURL == "" {
		return model.Job{}, false
	}

	location := f.obj("location").optStr("name")

	var department *string
	if deps := f.list("departments"); len(deps) > 0 {
		department = asFields(deps[0]).optStr("name")
	}

	content := f.str("content")
	description := htmlText(content)
	requirements := listItems(content)
	if len(requirements) == 0 {
		requirements = bulletLines(description)
	}
	minPay, maxPay := salary.FromMetadata(metadataItems(f.list("metadata")))

	return model.Job{
		Title:          f.str("title"),
		Company:        token,
		Location:       location,
		Department:     department,
		Description:    description,
		Requirements:   requirements,
		SalaryMin:      minPay,
		SalaryMax:      maxPay,
		Remote:         location != nil && containsFold(*location, "remote"),
		PostedAt:       f.optStr("updated_at"),
		ApplyURL:       applyURL,
		SourcePlatform: model.PlatformStructuredAPI,
		JobID:          nonZero(f.int64("id")),
	}, true
}

func metadataItems(raw []any) []salary.MetadataItem {
	items := make([]salary.MetadataItem, 0, len(raw))
	for _, r := range raw {
		m := asFields(r)
		if m == nil {
			continue
		}
		v := m["value"]
		if n, ok := v.(interface{ String() string }); ok {
			v = n.String()
		}
		items = append(items, salary.MetadataItem{Name: m.str("name"), Value: v})
	}
	return items
}

func nonZero(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
