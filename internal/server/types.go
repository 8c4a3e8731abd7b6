package server

import "github.com/josephgoksu/veritas/models"

// AnalyzeRequest is the payload for POST /api/analyze
type AnalyzeRequest struct {
	Text          string `json:"text"`
	ClaimedSource string `json:"claimedSource"`
}

// ScrapeRequest is the payload for POST /api/scrape
type ScrapeRequest struct {
	Text string `json:"text"`
}

// HeadlinesResponse is the response for GET /api/headlines
type HeadlinesResponse struct {
	Headlines []models.Headline `json:"headlines"`
	Live      bool              `json:"live"`
}

// ErrorResponse carries the message shown for a failed lane.
type ErrorResponse struct {
	Error string `json:"error"`
}
