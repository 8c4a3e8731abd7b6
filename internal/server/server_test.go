package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/veritas/internal/api"
	"github.com/josephgoksu/veritas/internal/detector"
	"github.com/josephgoksu/veritas/internal/history"
	"github.com/josephgoksu/veritas/models"
	"github.com/josephgoksu/veritas/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeAnalyzer struct {
	err error
	n   int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text, source string) (*models.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.n++
	return &models.AnalysisResult{
		ID:            "result-" + string(rune('a'+f.n-1)),
		Text:          text,
		Title:         text,
		ClaimedSource: source,
		FakeNews:      models.FakeNewsVerdict{Label: "REAL", Confidence: 0.9},
		StyleAnalysis: models.StyleAnalysis{PredictedSource: "TECH", Confidence: 0.5},
		Timestamp:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeScraper struct {
	err error
}

func (f *fakeScraper) ScrapeVerify(context.Context, string) (*models.ScrapeResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScrapeResult{Contract: models.ContractSummary, Verdict: models.SummarySupported, Sources: []models.ScrapeSource{}}, nil
}

type fakeHeadlines struct{}

func (fakeHeadlines) Ticker(context.Context) ([]models.Headline, bool) {
	return []models.Headline{{Headline: "Live story", Category: "WORLD"}}, true
}

func newTestServer(t *testing.T, a *fakeAnalyzer, s *fakeScraper, origins ...string) (*Server, *detector.Detector) {
	t.Helper()
	d := detector.New(a, s, history.New(store.NewMemoryKV()))
	return New(Config{Port: 0, AllowedOrigins: origins}, d, fakeHeadlines{}, nil), d
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAnalyze_Success(t *testing.T) {
	srv, d := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{})

	rec := do(t, srv, http.MethodPost, "/api/analyze", AnalyzeRequest{Text: "Story.", ClaimedSource: "TECH"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "result-a", got.ID)
	assert.Equal(t, "TECH", got.ClaimedSource)
	assert.Len(t, d.State().History, 1)
}

func TestAnalyze_BlankIsNoContent(t *testing.T) {
	a := &fakeAnalyzer{}
	srv, _ := newTestServer(t, a, &fakeScraper{})

	rec := do(t, srv, http.MethodPost, "/api/analyze", AnalyzeRequest{Text: "   "})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, a.n)
}

func TestAnalyze_BackendError(t *testing.T) {
	srv, d := newTestServer(t, &fakeAnalyzer{err: &api.APIError{Kind: api.KindAnalysis, Status: 500, Message: "model offline"}}, &fakeScraper{})

	rec := do(t, srv, http.MethodPost, "/api/analyze", AnalyzeRequest{Text: "Story."})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"model offline"}`, rec.Body.String())
	assert.Equal(t, "model offline", d.State().Error)
	assert.Empty(t, d.State().History)
}

// staleStateDetector reports an idle state with no errors, as it would look
// once a later request has restarted the lane.
type staleStateDetector struct {
	*detector.Detector
}

func (staleStateDetector) State() detector.State {
	return detector.State{History: []models.AnalysisResult{}}
}

func TestLaneErrors_ComeFromTheFailedCall(t *testing.T) {
	d := detector.New(
		&fakeAnalyzer{err: &api.APIError{Kind: api.KindAnalysis, Status: 500, Message: "model offline"}},
		&fakeScraper{err: &api.APIError{Kind: api.KindScrape, Message: "search quota exceeded"}},
		history.New(store.NewMemoryKV()),
	)
	srv := New(Config{}, staleStateDetector{d}, nil, nil)

	rec := do(t, srv, http.MethodPost, "/api/analyze", AnalyzeRequest{Text: "Story."})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"model offline"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/scrape", ScrapeRequest{Text: "Story."})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"search quota exceeded"}`, rec.Body.String())
}

func TestAnalyze_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrape(t *testing.T) {
	srv, d := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{})

	rec := do(t, srv, http.MethodPost, "/api/scrape", ScrapeRequest{Text: "Claim."})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verdict":"SUPPORTED"`)
	assert.Empty(t, d.State().History, "scrape never touches history")
}

func TestScrape_Unreachable(t *testing.T) {
	srv, d := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{err: &api.APIError{Kind: api.KindScrape, Message: "connection refused"}})

	rec := do(t, srv, http.MethodPost, "/api/scrape", ScrapeRequest{Text: "Claim."})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Nil(t, d.State().Scrape)
	assert.Equal(t, "connection refused", d.State().ScrapeError)
}

func TestHistoryEndpoints(t *testing.T) {
	srv, d := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{})

	rec := do(t, srv, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	do(t, srv, http.MethodPost, "/api/analyze", AnalyzeRequest{Text: "First."})
	do(t, srv, http.MethodPost, "/api/analyze", AnalyzeRequest{Text: "Second."})

	var entries []models.AnalysisResult
	rec = do(t, srv, http.MethodGet, "/api/history", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Second.", entries[0].Text)

	rec = do(t, srv, http.MethodPost, "/api/history/result-a/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, d.State().Current)
	assert.Equal(t, "First.", d.State().Current.Text)

	rec = do(t, srv, http.MethodPost, "/api/history/missing/select", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/history", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, d.State().History)
}

func TestState(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{})
	do(t, srv, http.MethodPost, "/api/analyze", AnalyzeRequest{Text: "Story."})

	var st detector.State
	rec := do(t, srv, http.MethodGet, "/api/state", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.Analyzing)
	require.NotNil(t, st.Current)
	assert.Equal(t, "Story.", st.Current.Text)
}

func TestHeadlines(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{})

	var resp HeadlinesResponse
	rec := do(t, srv, http.MethodGet, "/api/headlines", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Live)
	assert.Equal(t, "Live story", resp.Headlines[0].Headline)

	d := detector.New(&fakeAnalyzer{}, &fakeScraper{}, history.New(store.NewMemoryKV()))
	noFeed := New(Config{}, d, nil, nil)
	rec = do(t, noFeed, http.MethodGet, "/api/headlines", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Live)
	assert.Len(t, resp.Headlines, len(models.FallbackHeadlines))
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{}, "http://localhost:3000")

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAddr(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAnalyzer{}, &fakeScraper{})
	assert.Equal(t, ":0", srv.Addr())
}
