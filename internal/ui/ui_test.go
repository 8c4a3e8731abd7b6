package ui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/veritas/internal/detector"
	"github.com/josephgoksu/veritas/models"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 30 * time.Second, "just now"},
		{"one minute", time.Minute, "1 minute ago"},
		{"minutes", 5 * time.Minute, "5 minutes ago"},
		{"hours", 3 * time.Hour, "3 hours ago"},
		{"one day", 25 * time.Hour, "1 day ago"},
		{"future", -time.Hour, "just now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(fixedNow.Add(-tt.ago), fixedNow))
		})
	}

	assert.Equal(t, "unknown time", RelativeTime(time.Time{}, fixedNow))
	assert.Equal(t, "Jan 1, 2025", RelativeTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), fixedNow.AddDate(0, 2, 0)))
}

func TestStampAndTone(t *testing.T) {
	assert.Contains(t, Stamp("FAKE", models.ToneNegative), "FAKE")
	assert.Equal(t, ColorError, ToneColor(models.ToneNegative))
	assert.Equal(t, ColorSuccess, ToneColor(models.TonePositive))
	assert.Equal(t, ColorWarning, ToneColor(models.ToneUncertain))
}

func TestSpinner_WritesAndClears(t *testing.T) {
	var buf safeBuffer
	s := NewSpinner(&buf, "Analyzing")
	s.delay = time.Millisecond
	s.Start()
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "Analyzing")
	assert.True(t, strings.HasSuffix(out, "\r\033[K"))
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func sampleResult() models.AnalysisResult {
	return models.AnalysisResult{
		ID:            "3f2b9c1e-5d4a-4c8e-9b1a-2f6d7e8c9a0b",
		Text:          "Scientists discover revolutionary new energy source.",
		Title:         "Scientists discover revolutionary new energy source",
		Content:       "Scientists discover revolutionary new energy source.",
		ClaimedSource: "TECH",
		FakeNews:      models.FakeNewsVerdict{Label: "REAL", Confidence: 0.82},
		StyleAnalysis: models.StyleAnalysis{PredictedSource: "TECH", Confidence: 0.77},
		Timestamp:     fixedNow.Add(-5 * time.Minute),
	}
}

func TestAnalysisMarkdown(t *testing.T) {
	md := AnalysisMarkdown(sampleResult())
	assert.Contains(t, md, "## Scientists discover revolutionary new energy source")
	assert.Contains(t, md, "**Verdict: ✓ REAL**")
	assert.Contains(t, md, "| Fake news analysis | REAL | 0.82 |")
	assert.Contains(t, md, "| Style analysis | TECH | 0.77 |")
	assert.Contains(t, md, "Claimed source: `TECH`")
	assert.Contains(t, md, "✓ No impersonation")
	assert.Contains(t, md, "_ID 3f2b9c1e")

	r := sampleResult()
	r.Title, r.Text = "", ""
	r.FakeNews.Label = ""
	r.ImpersonationDetected = true
	md = AnalysisMarkdown(r)
	assert.Contains(t, md, "## Untitled")
	assert.Contains(t, md, "**Verdict: ⚠ UNKNOWN**")
	assert.Contains(t, md, "Impersonation detected")
}

func TestScrapeMarkdown(t *testing.T) {
	md := ScrapeMarkdown(models.ScrapeResult{
		Contract:     models.ContractSummary,
		QueryUsed:    "energy",
		SourcesFound: 2,
		Sources: []models.ScrapeSource{
			{Title: "First", URL: "https://a.example", Domain: "a.example", Snippet: "one"},
			{Title: "Second", URL: "https://b.example", Domain: "b.example"},
		},
		Verdict: models.SummaryDisputed,
	})
	assert.Contains(t, md, "**✗ DISPUTED**")
	assert.Contains(t, md, "Found **2** sources discussing this claim.")
	assert.Less(t, strings.Index(md, "First"), strings.Index(md, "Second"), "source order is preserved")
	assert.NotContains(t, md, "Confidence")

	md = ScrapeMarkdown(models.ScrapeResult{
		Contract:      models.ContractVerdict,
		Verdict:       models.VerdictFake,
		Confidence:    0.9,
		SourcesFound:  1,
		ProvidersUsed: []string{"google"},
		FactChecks:    []models.FactCheck{{Title: "Check", URL: "https://fc", Publisher: "AFP", Rating: "False", ClaimText: "claim"}},
	})
	assert.Contains(t, md, "**✗ FAKE**")
	assert.Contains(t, md, "Confidence: 0.9")
	assert.Contains(t, md, "Found **1** source discussing")
	assert.Contains(t, md, "- [Check](https://fc) (AFP): **False**")
	assert.Contains(t, md, "No web sources found for this claim.")
	assert.Contains(t, md, "_Providers: google_")
}

func TestHistoryMarkdown(t *testing.T) {
	older := sampleResult()
	older.ID = "older-id-123"
	older.Timestamp = fixedNow.Add(-2 * time.Hour)
	newer := sampleResult()
	newer.ID = "newer-id-456"

	md := HistoryMarkdown([]models.AnalysisResult{newer, older}, fixedNow)
	assert.Contains(t, md, "1. **#2** ✓")
	assert.Contains(t, md, "5 minutes ago")
	assert.Contains(t, md, "2. **#1** ✓")
	assert.Contains(t, md, "2 hours ago")

	assert.Contains(t, HistoryMarkdown(nil, fixedNow), "No stories checked yet")
}

func TestHeadlinesMarkdown(t *testing.T) {
	md := HeadlinesMarkdown(models.FallbackHeadlines, false)
	assert.Contains(t, md, "**TECH** Tech Innovation Summit Announces Breakthrough _4 hours ago_")
	assert.Contains(t, md, "showing sample headlines")
	assert.NotContains(t, HeadlinesMarkdown(models.FallbackHeadlines, true), "sample headlines")
}

// stubLanes records calls and answers synchronously.
type stubLanes struct {
	mu        sync.Mutex
	state     detector.State
	submitted []string
	sources   []string
	scraped   []string
	cleared   int
}

func (s *stubLanes) Submit(_ context.Context, text, source string) (*models.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, text)
	s.sources = append(s.sources, source)
	r := sampleResult()
	r.Text = text
	s.state.Current = &r
	s.state.History = append([]models.AnalysisResult{r}, s.state.History...)
	return &r, nil
}

func (s *stubLanes) SubmitScrape(_ context.Context, text string) (*models.ScrapeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scraped = append(s.scraped, text)
	s.state.Scrape = &models.ScrapeResult{Verdict: models.VerdictReal}
	return s.state.Scrape, nil
}

func (s *stubLanes) ClearHistory(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
	s.state.History = nil
	return nil
}

func (s *stubLanes) SelectHistory(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.state.History {
		if e.ID == id {
			e := e
			s.state.Current = &e
			return true
		}
	}
	return false
}

func (s *stubLanes) State() detector.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func newTestModel(lanes *stubLanes) AppModel {
	return NewAppModel(context.Background(), lanes, nil,
		WithRenderer(PlainMarkdown),
		WithClock(func() time.Time { return fixedNow }))
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain executes cmd (and any batch it expands to) and feeds lane results
// back into the model.
func drain(t *testing.T, m AppModel, cmd tea.Cmd) AppModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case msgLaneDone:
		next, _ := m.Update(msg)
		m = next.(AppModel)
	}
	return m
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestApp_AnalyzeFlow(t *testing.T) {
	lanes := &stubLanes{}
	m := newTestModel(lanes)
	m.input.SetValue("Breaking story.")

	m, _ = update(m, key(tea.KeyCtrlO))
	assert.Equal(t, "POLITICS", m.ClaimedSource())

	m, cmd := update(m, key(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	assert.True(t, m.State().Analyzing, "lane shows busy before the response")

	m = drain(t, m, cmd)
	assert.Equal(t, []string{"Breaking story."}, lanes.submitted)
	assert.Equal(t, []string{"POLITICS"}, lanes.sources)
	assert.False(t, m.State().Analyzing)
	require.NotNil(t, m.State().Current)

	view := m.View()
	assert.Contains(t, view, "THE VERITAS TRIBUNE")
	assert.Contains(t, view, "Edition 1")
	assert.Contains(t, view, "Past Editions")
	assert.Contains(t, view, "#1")
}

func TestApp_BlankInputDoesNothing(t *testing.T) {
	lanes := &stubLanes{}
	m := newTestModel(lanes)
	m.input.SetValue("   ")

	m, cmd := update(m, key(tea.KeyCtrlS))
	assert.Nil(t, cmd)
	_, cmd = update(m, key(tea.KeyCtrlW))
	assert.Nil(t, cmd)
	assert.Empty(t, lanes.submitted)
}

func TestApp_ActionsDisabledWhileBusy(t *testing.T) {
	lanes := &stubLanes{}
	m := newTestModel(lanes)
	m.input.SetValue("Story.")

	m, _ = update(m, MsgState{State: detector.State{Scraping: true}})
	_, cmd := update(m, key(tea.KeyCtrlS))
	assert.Nil(t, cmd, "analyze is disabled while the scrape lane is busy")

	m, _ = update(m, MsgState{State: detector.State{Analyzing: true}})
	_, cmd = update(m, key(tea.KeyCtrlW))
	assert.Nil(t, cmd, "scrape is disabled while the analyze lane is busy")
	assert.Contains(t, m.View(), "Analyzing story...")
}

func TestApp_ScrapeFlow(t *testing.T) {
	lanes := &stubLanes{}
	m := newTestModel(lanes)
	m.input.SetValue("Claim.")

	m, cmd := update(m, key(tea.KeyCtrlW))
	require.NotNil(t, cmd)
	assert.True(t, m.State().Scraping)

	m = drain(t, m, cmd)
	assert.Equal(t, []string{"Claim."}, lanes.scraped)
	require.NotNil(t, m.State().Scrape)
	assert.Contains(t, m.reportContent(), "✓ REAL")
}

func TestApp_HistoryNavigation(t *testing.T) {
	lanes := &stubLanes{}
	first := sampleResult()
	first.ID, first.Title = "first", "First story"
	second := sampleResult()
	second.ID, second.Title = "second", "Second story"
	lanes.state.History = []models.AnalysisResult{second, first}

	m := newTestModel(lanes)
	m, _ = update(m, key(tea.KeyTab))
	assert.Equal(t, focusHistory, m.focus)

	m, _ = update(m, key(tea.KeyDown))
	m, _ = update(m, key(tea.KeyDown))
	assert.Equal(t, 1, m.cursor, "cursor stops at the last entry")

	m, _ = update(m, key(tea.KeyEnter))
	require.NotNil(t, m.State().Current)
	assert.Equal(t, "first", m.State().Current.ID)

	m, cmd := update(m, runes("c"))
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)
	assert.Equal(t, 1, lanes.cleared)
	assert.Empty(t, m.State().History)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.View(), "No stories checked yet.")
}

func TestApp_ErrorsShown(t *testing.T) {
	m := newTestModel(&stubLanes{})
	m, _ = update(m, MsgState{State: detector.State{Error: "model offline", ScrapeError: "Unable to scrape the web right now."}})
	content := m.reportContent()
	assert.Contains(t, content, "model offline")
	assert.Contains(t, content, "Unable to scrape the web right now.")
}

func TestApp_HeadlinesAndResize(t *testing.T) {
	m := newTestModel(&stubLanes{})
	assert.Contains(t, m.View(), "Loading headlines...")

	m, _ = update(m, m.fetchHeadlines())
	assert.Contains(t, m.View(), "Local Community Rallies")

	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 50})
	assert.Equal(t, 120, m.report.Width)
	assert.GreaterOrEqual(t, m.report.Height, minReportRows)
}

func TestApp_Quit(t *testing.T) {
	m := newTestModel(&stubLanes{})
	_, cmd := update(m, key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
