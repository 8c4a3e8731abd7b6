package models

import (
	"strings"
	"time"
)

// UnknownSource is the claimed source used when the user does not name one.
// A claimed source of UNKNOWN can never be impersonated.
const UnknownSource = "UNKNOWN"

// UnknownLabel is the verdict label applied when the backend omits one.
const UnknownLabel = "UNKNOWN"

// ClaimedSources are the source tags offered by the input form.
// Free-text sources are still accepted and upper-cased.
var ClaimedSources = []string{
	UnknownSource,
	"POLITICS",
	"WORLD NEWS",
	"BUSINESS",
	"TECH",
	"ENTERTAINMENT",
}

// FakeNewsVerdict is the classifier outcome for the submitted text.
type FakeNewsVerdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// StyleAnalysis is the writing-style classifier outcome.
type StyleAnalysis struct {
	PredictedSource string  `json:"predictedSource"`
	Confidence      float64 `json:"confidence"`
}

// AnalysisResult is one verification outcome. It is created once from a
// successful analyze call and never mutated afterwards.
type AnalysisResult struct {
	ID                    string          `json:"id"`
	Text                  string          `json:"text"`
	Title                 string          `json:"title"`
	Content               string          `json:"content"`
	ClaimedSource         string          `json:"claimedSource"`
	FakeNews              FakeNewsVerdict `json:"fakeNews"`
	StyleAnalysis         StyleAnalysis   `json:"styleAnalysis"`
	ImpersonationDetected bool            `json:"impersonationDetected"`
	Timestamp             time.Time       `json:"timestamp"`
}

// DisplayTitle returns the title, falling back to the submitted text and
// finally to "Untitled".
func (r AnalysisResult) DisplayTitle() string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(r.Text); t != "" {
		return t
	}
	return "Untitled"
}

// Label returns the verdict label, or UNKNOWN when it is empty.
func (r AnalysisResult) Label() string {
	if r.FakeNews.Label == "" {
		return UnknownLabel
	}
	return r.FakeNews.Label
}

// Tone classifies the verdict label for display.
func (r AnalysisResult) Tone() Tone {
	return ToneForLabel(r.FakeNews.Label)
}
