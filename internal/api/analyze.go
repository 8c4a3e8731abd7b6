package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/josephgoksu/veritas/internal/utils"
	"github.com/josephgoksu/veritas/models"
	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// analyzeRequest is the /analyze payload.
type analyzeRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	ClaimedSource string `json:"claimed_source"`
}

// NormalizeSource upper-cases a claimed source, defaulting blanks to UNKNOWN.
func NormalizeSource(source string) string {
	s := strings.TrimSpace(source)
	if s == "" {
		return models.UnknownSource
	}
	return upper.String(s)
}

// Analyze submits text for verification and returns the normalized result.
// Blank text returns ErrEmptyInput without contacting the backend.
func (c *Client) Analyze(ctx context.Context, text, claimedSource string) (*models.AnalysisResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	source := NormalizeSource(claimedSource)
	title := utils.DeriveTitle(trimmed)

	resp, err := c.do(ctx, http.MethodPost, analyzePath, analyzeRequest{
		Title:         title,
		Content:       trimmed,
		ClaimedSource: source,
	})
	if err != nil {
		return nil, newTransportError(KindAnalysis, err)
	}
	if !resp.ok() {
		return nil, newStatusError(KindAnalysis, resp, "request failed")
	}
	if !gjson.ValidBytes(resp.body) {
		return nil, newDecodeError(KindAnalysis, errors.New("body is not valid JSON"))
	}

	doc := gjson.ParseBytes(resp.body)
	impersonation := doc.Get("impersonation_detected")

	return &models.AnalysisResult{
		ID:            c.newID(),
		Text:          trimmed,
		Title:         title,
		Content:       trimmed,
		ClaimedSource: source,
		FakeNews: models.FakeNewsVerdict{
			Label:      stringOr(doc.Get("fake_news.label"), models.UnknownLabel),
			Confidence: floatOr(doc.Get("fake_news.confidence"), 0),
		},
		StyleAnalysis: models.StyleAnalysis{
			PredictedSource: stringOr(doc.Get("style_analysis.predicted_source"), models.UnknownSource),
			Confidence:      floatOr(doc.Get("style_analysis.confidence"), 0),
		},
		ImpersonationDetected: source != models.UnknownSource && present(impersonation) && impersonation.Bool(),
		Timestamp:             c.now(),
	}, nil
}
