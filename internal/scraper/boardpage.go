package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gocolly/colly/v2"

	"jobmate/ats-ingest/internal/model"
)

const (
	DefaultBoardHostPattern = "{token}.greenhouse.io"

	// Card detection is a class-name substring heuristic; boards do not
	// promise stable markup.
	jobCardSelector  = `div[class*="job-card"]`
	locationSelector = `span[class*="location"]`
)

// BoardPageAdapter scrapes the human-facing listing page of a board,
// https://{host}/jobs, when no API answers.
type BoardPageAdapter struct {
	hostPattern string
	scheme      string
	client      *http.Client
	log         *slog.Logger
}

// NewBoardPageAdapter returns an adapter for the html-fallback platform.
// scheme is "https" in production; tests point it at plain http.
func NewBoardPageAdapter(hostPattern, scheme string, o Options) *BoardPageAdapter {
	if hostPattern == "" {
		hostPattern = DefaultBoardHostPattern
	}
	if scheme == "" {
		scheme = "https"
	}
	client := o.Client
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &BoardPageAdapter{
		hostPattern: hostPattern,
		scheme:      scheme,
		client:      client,
		log:         o.logger().With("component", "boardpage"),
	}
}

func (a *BoardPageAdapter) Platform() model.Platform { return model.PlatformHTMLFallback }

// Fetch visits the listing page and turns every job card into a record.
// A page with no recognisable cards yields zero records and no error.
func (a *BoardPageAdapter) Fetch(ctx context.Context, token string) Outcome {
	base := a.scheme + "://" + BoardHost(a.hostPattern, token)
	pageURL := base + "/jobs"

	c := colly.NewCollector(colly.UserAgent(userAgent))
	c.SetClient(a.client)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	jobs := make([]model.Job, 0)
	c.OnHTML(jobCardSelector, func(e *colly.HTMLElement) {
		// only the innermost match is a card; wrappers such as
		// "job-cards-list" match the selector too
		if e.DOM.Find(jobCardSelector).Length() > 0 {
			return
		}

		titleEl := e.DOM.Find("a").First()
		if titleEl.Length() == 0 {
			titleEl = e.DOM.Find("h2").First()
		}
		if titleEl.Length() == 0 {
			return
		}

		title := strings.TrimSpace(titleEl.Text())
		href, _ := titleEl.Attr("href")
		applyURL := absoluteURL(base+"/", href)
		if applyURL == "" {
			a.log.Debug("dropping card without link", "employer", token, "title", title)
			return
		}

		var location *string
		if l := e.DOM.Find(locationSelector).First(); l.Length() > 0 {
			s := strings.TrimSpace(l.Text())
			location = &s
		}

		id := syntheticID(title)
		jobs = append(jobs, model.Job{
			Title:          title,
			Company:        token,
			Location:       location,
			Requirements:   []string{},
			Remote:         location != nil && containsFold(*location, "remote"),
			ApplyURL:       applyURL,
			SourcePlatform: model.PlatformHTMLFallback,
			JobID:          &id,
		})
	})

	if err := ctx.Err(); err != nil {
		return failed(a.log, a.Platform(), token, err)
	}
	if err := c.Visit(pageURL); err != nil {
		return failed(a.log, a.Platform(), token, fmt.Errorf("visit %s: %w", pageURL, err))
	}

	a.log.Info("board page scraped", "employer", token, "jobs", len(jobs))
	return Outcome{Jobs: jobs}
}

// syntheticID derives a stable non-negative id from a title. Two postings
// with the same title collide.
func syntheticID(title string) int64 {
	return int64(xxhash.Sum64String(title) & math.MaxInt64)
}
