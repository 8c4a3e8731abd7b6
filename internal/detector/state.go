package detector

import (
	"strings"

	"github.com/josephgoksu/veritas/models"
)

// State is an immutable snapshot of both lanes and the history.
type State struct {
	Analyzing bool                    `json:"analyzing"`
	Current   *models.AnalysisResult  `json:"current"`
	Error     string                  `json:"error,omitempty"`
	History   []models.AnalysisResult `json:"history"`

	Scraping    bool                 `json:"scraping"`
	Scrape      *models.ScrapeResult `json:"scrape"`
	ScrapeError string               `json:"scrapeError,omitempty"`
}

// Busy reports whether either lane has a request in flight.
func (s State) Busy() bool {
	return s.Analyzing || s.Scraping
}

func (s State) clone() State {
	out := s
	if s.Current != nil {
		c := *s.Current
		out.Current = &c
	}
	if s.Scrape != nil {
		c := cloneScrape(*s.Scrape)
		out.Scrape = &c
	}
	out.History = make([]models.AnalysisResult, len(s.History))
	copy(out.History, s.History)
	return out
}

func cloneScrape(r models.ScrapeResult) models.ScrapeResult {
	r.Sources = cloneSlice(r.Sources)
	r.FactChecks = cloneSlice(r.FactChecks)
	r.ProvidersUsed = cloneSlice(r.ProvidersUsed)
	return r
}

// cloneSlice copies in, keeping nil and empty distinct.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
