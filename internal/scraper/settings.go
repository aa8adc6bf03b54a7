package scraper

import (
	"log/slog"
	"net/http"
)

// Settings selects upstream endpoints for the default adapter set.
type Settings struct {
	GreenhouseAPI  string
	LeverAPI       string
	BoardHost      string // e.g. "{token}.greenhouse.io"
	IncludeContent bool
	Retries        uint64
}

// DefaultAdapters builds one adapter per platform sharing client.
func DefaultAdapters(s Settings, client *http.Client, log *slog.Logger) []Adapter {
	o := Options{Client: client, Logger: log, Retries: s.Retries}
	return []Adapter{
		NewGreenhouseAdapter(s.GreenhouseAPI, s.BoardHost, s.IncludeContent, o),
		NewLeverAdapter(s.LeverAPI, o),
		NewBoardPageAdapter(s.BoardHost, "https", o),
	}
}
