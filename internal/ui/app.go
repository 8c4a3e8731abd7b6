package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/veritas/internal/detector"
	"github.com/josephgoksu/veritas/internal/logger"
	"github.com/josephgoksu/veritas/internal/utils"
	"github.com/josephgoksu/veritas/models"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	inputHeight   = 5
	historyRows   = 10
	chromeHeight  = 16 // masthead, ticker, input, status, help
	minReportRows = 4
)

// Lanes is what the interactive desk drives.
type Lanes interface {
	Submit(ctx context.Context, text, claimedSource string) (*models.AnalysisResult, error)
	SubmitScrape(ctx context.Context, text string) (*models.ScrapeResult, error)
	ClearHistory(ctx context.Context) error
	SelectHistory(id string) bool
	State() detector.State
}

// HeadlineSource feeds the ticker.
type HeadlineSource interface {
	Ticker(ctx context.Context) ([]models.Headline, bool)
}

// MsgState carries a detector snapshot into the program.
type MsgState struct {
	State detector.State
}

// MsgHeadlines carries the ticker contents.
type MsgHeadlines struct {
	Headlines []models.Headline
	Live      bool
}

// msgLaneDone is sent when a lane call returns.
type msgLaneDone struct {
	lane string
	err  error
}

type focusArea int

const (
	focusInput focusArea = iota
	focusHistory
)

// AppModel is the Bubble Tea model for the verification desk.
type AppModel struct {
	ctx       context.Context
	lanes     Lanes
	headlines HeadlineSource
	render    MarkdownRenderer
	now       func() time.Time

	state      detector.State
	sourceIdx  int
	focus      focusArea
	cursor     int
	ticker     []models.Headline
	tickerLive bool
	notice     string
	width      int
	height     int

	input   textarea.Model
	spinner spinner.Model
	report  viewport.Model
}

// AppOption configures an AppModel.
type AppOption func(*AppModel)

// WithRenderer replaces the Markdown renderer used for reports.
func WithRenderer(r MarkdownRenderer) AppOption {
	return func(m *AppModel) { m.render = r }
}

// WithClock replaces the clock used for relative times.
func WithClock(now func() time.Time) AppOption {
	return func(m *AppModel) { m.now = now }
}

// NewAppModel builds the desk around lanes.
func NewAppModel(ctx context.Context, lanes Lanes, headlines HeadlineSource, opts ...AppOption) AppModel {
	ti := textarea.New()
	ti.Placeholder = "Paste a headline or article to verify..."
	ti.Focus()
	ti.CharLimit = 0
	ti.ShowLineNumbers = false
	ti.SetWidth(defaultWidth - 4)
	ti.SetHeight(inputHeight)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StyleSubtle

	m := AppModel{
		ctx:       ctx,
		lanes:     lanes,
		headlines: headlines,
		render:    GlamourMarkdown,
		now:       time.Now,
		state:     lanes.State(),
		width:     defaultWidth,
		height:    defaultHeight,
		input:     ti,
		spinner:   s,
		report:    viewport.New(defaultWidth, minReportRows),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refreshReport()
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.fetchHeadlines)
}

func (m AppModel) fetchHeadlines() tea.Msg {
	if m.headlines == nil {
		return MsgHeadlines{Headlines: models.FallbackHeadlines}
	}
	h, live := m.headlines.Ticker(m.ctx)
	return MsgHeadlines{Headlines: h, Live: live}
}

// ClaimedSource returns the currently selected claimed source.
func (m AppModel) ClaimedSource() string {
	return models.ClaimedSources[m.sourceIdx]
}

// State returns the snapshot the model is showing.
func (m AppModel) State() detector.State {
	return m.state
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(msg.Width - 4)
		m.refreshReport()
		return m, nil

	case MsgState:
		m.setState(msg.State)
		return m, nil

	case MsgHeadlines:
		m.ticker, m.tickerLive = msg.Headlines, msg.Live
		return m, nil

	case msgLaneDone:
		if errors.Is(msg.err, detector.ErrLaneBusy) {
			m.notice = "A request is already in progress."
		}
		m.setState(m.lanes.State())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.toggleFocus()
			return m, nil
		case "ctrl+s":
			return m, m.startAnalyze()
		case "ctrl+w":
			return m, m.startScrape()
		case "ctrl+o":
			m.sourceIdx = (m.sourceIdx + 1) % len(models.ClaimedSources)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.report, cmd = m.report.Update(msg)
			return m, cmd
		}

		if m.focus == focusHistory {
			return m.updateHistory(msg)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *AppModel) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusHistory
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

func (m AppModel) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.state.History
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(entries) && m.lanes.SelectHistory(entries[m.cursor].ID) {
			m.setState(m.lanes.State())
		}
	case "c":
		lanes, ctx := m.lanes, m.ctx
		return m, func() tea.Msg {
			return msgLaneDone{lane: "history", err: lanes.ClearHistory(ctx)}
		}
	}
	return m, nil
}

// startAnalyze dispatches the analyze lane unless a lane is busy or the
// input is blank.
func (m *AppModel) startAnalyze() tea.Cmd {
	text := m.input.Value()
	if m.state.Busy() || strings.TrimSpace(text) == "" {
		return nil
	}
	m.state.Analyzing = true
	m.state.Error = ""

	lanes, ctx, source := m.lanes, m.ctx, m.ClaimedSource()
	logger.SetLastSubmission("analyze", text)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		_, err := lanes.Submit(ctx, text, source)
		return msgLaneDone{lane: "analyze", err: err}
	})
}

func (m *AppModel) startScrape() tea.Cmd {
	text := m.input.Value()
	if m.state.Busy() || strings.TrimSpace(text) == "" {
		return nil
	}
	m.state.Scraping = true
	m.state.ScrapeError = ""
	m.state.Scrape = nil

	lanes, ctx := m.lanes, m.ctx
	logger.SetLastSubmission("scrape", text)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		_, err := lanes.SubmitScrape(ctx, text)
		return msgLaneDone{lane: "scrape", err: err}
	})
}

func (m *AppModel) setState(s detector.State) {
	m.state = s
	if m.cursor >= len(s.History) {
		m.cursor = max(len(s.History)-1, 0)
	}
	m.refreshReport()
}

func (m *AppModel) refreshReport() {
	rows := m.height - chromeHeight - inputHeight - min(len(m.state.History), historyRows)
	m.report.Width = m.width
	m.report.Height = max(rows, minReportRows)
	m.report.SetContent(m.reportContent())
}

func (m AppModel) reportContent() string {
	var parts []string

	switch {
	case m.state.Current != nil:
		parts = append(parts, m.render(AnalysisMarkdown(*m.state.Current), m.width-2))
	case !m.state.Analyzing && m.state.Error == "":
		parts = append(parts, StyleSubtle.Render("Submit a story with ctrl+s to see its verification report."))
	}
	if m.state.Error != "" {
		parts = append(parts, StyleError.Render("✗ "+m.state.Error))
	}

	if m.state.Scrape != nil {
		parts = append(parts, m.render(ScrapeMarkdown(*m.state.Scrape), m.width-2))
	}
	if m.state.ScrapeError != "" {
		parts = append(parts, StyleError.Render("✗ "+m.state.ScrapeError))
	}
	return strings.Join(parts, "\n\n")
}

func (m AppModel) View() string {
	var b strings.Builder

	b.WriteString(StyleMasthead.Width(m.width).Render("THE VERITAS TRIBUNE"))
	b.WriteString("\n")
	dateline := fmt.Sprintf("%s · Edition %d", m.now().Format("Monday, January 2, 2006"), len(m.state.History))
	b.WriteString(StyleDateline.Width(m.width).Render(dateline))
	b.WriteString("\n")
	b.WriteString(m.tickerView())
	b.WriteString("\n\n")

	box := StyleInputBox
	if m.focus == focusInput {
		box = StyleFocusedBox
	}
	b.WriteString(box.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.sourceView())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n\n")

	b.WriteString(m.report.View())
	b.WriteString("\n\n")
	b.WriteString(m.historyView())
	b.WriteString("\n")
	b.WriteString(StyleSubtle.Render(m.helpText()))
	return b.String()
}

func (m AppModel) tickerView() string {
	if len(m.ticker) == 0 {
		return StyleSubtle.Render("Loading headlines...")
	}
	items := make([]string, len(m.ticker))
	for i, h := range m.ticker {
		items[i] = StyleTitle.Render(h.Category) + " " + StyleText.Render(h.Headline)
	}
	line := strings.Join(items, StyleSubtle.Render(" • "))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func (m AppModel) sourceView() string {
	parts := make([]string, len(models.ClaimedSources))
	for i, s := range models.ClaimedSources {
		if i == m.sourceIdx {
			parts[i] = StyleSelected.Render("[" + s + "]")
		} else {
			parts[i] = StyleSubtle.Render(s)
		}
	}
	return "Claimed source: " + strings.Join(parts, " ")
}

func (m AppModel) statusView() string {
	var parts []string
	if m.state.Analyzing {
		parts = append(parts, m.spinner.View()+" Analyzing story...")
	}
	if m.state.Scraping {
		parts = append(parts, m.spinner.View()+" Searching the web...")
	}
	if m.notice != "" {
		parts = append(parts, StyleWarning.Render(m.notice))
	}
	if len(parts) == 0 {
		return StyleSubtle.Render("Ready.")
	}
	return strings.Join(parts, "   ")
}

func (m AppModel) historyView() string {
	title := StyleSectionTitle.Render("Past Editions")
	if len(m.state.History) == 0 {
		return title + "\n" + StyleSubtle.Render("No stories checked yet.")
	}

	now := m.now()
	lines := []string{title}
	for i, e := range m.state.History {
		if i == historyRows {
			break
		}
		prefix := "  "
		if m.focus == focusHistory && i == m.cursor {
			prefix = "▶ "
		}
		line := fmt.Sprintf("#%-2d %s %s", len(m.state.History)-i,
			utils.Truncate(e.DisplayTitle(), max(m.width-40, 20)),
			StyleSubtle.Render(RelativeTime(e.Timestamp, now)))
		label := ToneStyle(e.Tone()).Render(e.Label())
		if m.focus == focusHistory && i == m.cursor {
			line = StyleSelected.Render(line)
		}
		lines = append(lines, prefix+line+"  "+label)
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) helpText() string {
	if m.focus == focusHistory {
		return "↑/↓ navigate • enter open • c clear history • tab input • esc quit"
	}
	if m.state.Busy() {
		return "working... • tab history • pgup/pgdn scroll • esc quit"
	}
	return "ctrl+s analyze • ctrl+w web search • ctrl+o source • tab history • pgup/pgdn scroll • esc quit"
}

// Subscriber publishes detector state changes.
type Subscriber interface {
	Subscribe(fn detector.Listener) (unsubscribe func())
}

// RunApp runs the desk until the user quits. Detector transitions are
// forwarded into the program as they happen.
func RunApp(ctx context.Context, lanes Lanes, sub Subscriber, headlines HeadlineSource) error {
	p := tea.NewProgram(NewAppModel(ctx, lanes, headlines), tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := sub.Subscribe(func(s detector.State) {
		p.Send(MsgState{State: s})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run interactive desk: %w", err)
	}
	return nil
}
