package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/josephgoksu/veritas/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeVerify_SummaryContract(t *testing.T) {
	var got scrapeRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scrape-verify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{
			"query_used": "energy source cities",
			"sources_found": 7,
			"sources": [
				{"title": "First", "url": "https://a.example/1", "snippet": "one", "domain": "a.example"},
				{"title": "Second", "url": "https://b.example/2", "snippet": "two", "domain": "b.example"}
			],
			"summary": "DISPUTED"
		}`)
	})

	result, err := client.ScrapeVerify(context.Background(), "  Example claim ")
	require.NoError(t, err)

	assert.Equal(t, "Example claim", got.Content)
	assert.Equal(t, models.ContractSummary, result.Contract)
	assert.Equal(t, "energy source cities", result.QueryUsed)
	assert.Equal(t, 7, result.SourcesFound)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "First", result.Sources[0].Title)
	assert.Equal(t, "Second", result.Sources[1].Title)
	assert.Equal(t, models.SummaryDisputed, result.Verdict)
	assert.Empty(t, result.FactChecks)
	assert.NotNil(t, result.FactChecks)
	assert.Equal(t, fixedNow, result.Timestamp)
}

func TestScrapeVerify_VerdictContract(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"query_used": "claim",
			"sources_found": 1,
			"sources": [{"title": "<b>Bold</b> &amp; true", "url": "https://x.example", "snippet": "<script>alert(1)</script>text",
				"domain": "x.example", "source_name": "X News", "provider": "serper"}],
			"fact_checks": [
				{"title": "Check B", "url": "https://fc.example/b", "publisher": "FC", "rating": "False", "claim_text": "claim b"},
				{"title": "Check A", "url": "https://fc.example/a"}
			],
			"verdict": "FAKE",
			"confidence": 0.91,
			"explanation": "Multiple fact checkers rate it false.",
			"providers_used": ["serper", "google_factcheck", "serper"]
		}`)
	})

	result, err := client.ScrapeVerify(context.Background(), "claim")
	require.NoError(t, err)

	assert.Equal(t, models.ContractVerdict, result.Contract)
	assert.Equal(t, models.VerdictFake, result.Verdict)
	assert.InDelta(t, 0.91, result.Confidence, 1e-9)
	assert.Equal(t, "Multiple fact checkers rate it false.", result.Explanation)
	assert.Equal(t, []string{"serper", "google_factcheck"}, result.ProvidersUsed)

	require.Len(t, result.Sources, 1)
	src := result.Sources[0]
	assert.Equal(t, "Bold & true", src.Title)
	assert.Equal(t, "text", src.Snippet)
	assert.Equal(t, "X News", src.SourceName)
	assert.Equal(t, "serper", src.Provider)

	require.Len(t, result.FactChecks, 2)
	assert.Equal(t, "Check B", result.FactChecks[0].Title, "backend order is kept")
	assert.Equal(t, "False", result.FactChecks[0].Rating)
	assert.Equal(t, "claim b", result.FactChecks[0].ClaimText)
	assert.Equal(t, "Check A", result.FactChecks[1].Title)
}

func TestScrapeVerify_DefaultsForEmptyObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	result, err := client.ScrapeVerify(context.Background(), "claim")
	require.NoError(t, err)

	assert.Equal(t, models.ContractSummary, result.Contract)
	assert.Equal(t, "", result.QueryUsed)
	assert.Zero(t, result.SourcesFound)
	assert.Empty(t, result.Sources)
	assert.Equal(t, models.VerdictUnverified, result.Verdict)
}

func TestScrapeVerify_Errors(t *testing.T) {
	t.Run("body message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "search quota exceeded", http.StatusTooManyRequests)
		})
		_, err := client.ScrapeVerify(context.Background(), "claim")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindScrape))
		assert.Equal(t, "search quota exceeded\n", err.Error())
	})

	t.Run("status fallback", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.ScrapeVerify(context.Background(), "claim")
		require.Error(t, err)
		assert.Equal(t, "scrape request failed with status 502", err.Error())
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := New("http://127.0.0.1:1").ScrapeVerify(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}
