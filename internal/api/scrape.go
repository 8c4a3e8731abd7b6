package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/josephgoksu/veritas/models"
	"github.com/tidwall/gjson"
)

type scrapeRequest struct {
	Content string `json:"content"`
}

// verdictFields only appear in the later response contract.
var verdictFields = []string{"verdict", "fact_checks", "confidence", "explanation", "providers_used"}

// ScrapeVerify asks the backend to gather web evidence for the text.
// Either response contract is accepted; which one arrived is decided by
// field presence and recorded in ScrapeResult.Contract.
func (c *Client) ScrapeVerify(ctx context.Context, text string) (*models.ScrapeResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	resp, err := c.do(ctx, http.MethodPost, scrapePath, scrapeRequest{Content: trimmed})
	if err != nil {
		return nil, newTransportError(KindScrape, err)
	}
	if !resp.ok() {
		return nil, newStatusError(KindScrape, resp, "scrape request failed")
	}
	if !gjson.ValidBytes(resp.body) {
		return nil, newDecodeError(KindScrape, errors.New("body is not valid JSON"))
	}

	return c.decodeScrape(gjson.ParseBytes(resp.body)), nil
}

func (c *Client) decodeScrape(doc gjson.Result) *models.ScrapeResult {
	result := &models.ScrapeResult{
		Contract:      models.ContractSummary,
		QueryUsed:     stringOr(doc.Get("query_used"), ""),
		SourcesFound:  int(doc.Get("sources_found").Int()),
		Sources:       []models.ScrapeSource{},
		FactChecks:    []models.FactCheck{},
		Verdict:       models.VerdictUnverified,
		ProvidersUsed: []string{},
		Timestamp:     c.now(),
	}

	for _, field := range verdictFields {
		if present(doc.Get(field)) {
			result.Contract = models.ContractVerdict
			break
		}
	}

	if sources := doc.Get("sources"); sources.IsArray() {
		for _, s := range sources.Array() {
			result.Sources = append(result.Sources, models.ScrapeSource{
				Title:      c.plain(stringOr(s.Get("title"), "")),
				URL:        stringOr(s.Get("url"), ""),
				Snippet:    c.plain(stringOr(s.Get("snippet"), "")),
				Domain:     stringOr(s.Get("domain"), ""),
				SourceName: c.plain(stringOr(s.Get("source_name"), "")),
				Provider:   stringOr(s.Get("provider"), ""),
			})
		}
	}

	if checks := doc.Get("fact_checks"); checks.IsArray() {
		for _, f := range checks.Array() {
			result.FactChecks = append(result.FactChecks, models.FactCheck{
				Title:     c.plain(stringOr(f.Get("title"), "")),
				URL:       stringOr(f.Get("url"), ""),
				Publisher: c.plain(stringOr(f.Get("publisher"), "")),
				Rating:    c.plain(stringOr(f.Get("rating"), "")),
				ClaimText: c.plain(stringOr(f.Get("claim_text"), "")),
			})
		}
	}

	switch result.Contract {
	case models.ContractVerdict:
		result.Verdict = stringOr(doc.Get("verdict"), models.VerdictUnverified)
		result.Confidence = floatOr(doc.Get("confidence"), 0)
		result.Explanation = c.plain(stringOr(doc.Get("explanation"), ""))
	default:
		result.Verdict = stringOr(doc.Get("summary"), models.VerdictUnverified)
	}

	if providers := doc.Get("providers_used"); providers.IsArray() {
		seen := make(map[string]bool)
		for _, p := range providers.Array() {
			name := p.String()
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			result.ProvidersUsed = append(result.ProvidersUsed, name)
		}
	}

	return result
}
