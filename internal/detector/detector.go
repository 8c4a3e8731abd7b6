// Package detector coordinates the two verification lanes (analyze and
// scrape) and the history, and publishes every state transition to
// subscribers.
package detector

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/josephgoksu/veritas/internal/api"
	"github.com/josephgoksu/veritas/models"
)

// ErrLaneBusy is returned when a lane already has a request in flight.
var ErrLaneBusy = errors.New("a request is already in progress")

const (
	DefaultAnalyzeError = "Unable to analyze this story right now."
	DefaultScrapeError  = "Unable to scrape the web right now."
)

// Analyzer runs the fake-news and style classifiers.
type Analyzer interface {
	Analyze(ctx context.Context, text, claimedSource string) (*models.AnalysisResult, error)
}

// Scraper runs the web evidence search.
type Scraper interface {
	ScrapeVerify(ctx context.Context, text string) (*models.ScrapeResult, error)
}

// HistoryStore is the history capability the detector drives.
type HistoryStore interface {
	Load(ctx context.Context) []models.AnalysisResult
	Append(ctx context.Context, result models.AnalysisResult) ([]models.AnalysisResult, error)
	Clear(ctx context.Context) error
	Entries() []models.AnalysisResult
	Find(id string) (models.AnalysisResult, bool)
	Reload(ctx context.Context) []models.AnalysisResult
}

// Listener receives a snapshot after every transition.
type Listener func(State)

// Detector owns the lane state. All methods are safe for concurrent use.
type Detector struct {
	analyzer Analyzer
	scraper  Scraper
	history  HistoryStore
	logger   *zap.Logger

	mu    sync.Mutex
	state State

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) { d.logger = l }
}

// New creates a Detector. Call LoadHistory before first use to read the
// persisted history.
func New(analyzer Analyzer, scraper Scraper, history HistoryStore, opts ...Option) *Detector {
	d := &Detector{
		analyzer:  analyzer,
		scraper:   scraper,
		history:   history,
		logger:    zap.NewNop(),
		listeners: make(map[int]Listener),
		state:     State{History: []models.AnalysisResult{}},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LoadHistory reads the persisted history into the state.
func (d *Detector) LoadHistory(ctx context.Context) State {
	d.history.Load(ctx)
	return d.update(func(s *State) { s.History = d.history.Entries() })
}

// ReloadHistory re-reads history after an external change to the snapshot.
func (d *Detector) ReloadHistory(ctx context.Context) State {
	d.history.Reload(ctx)
	return d.update(func(s *State) { s.History = d.history.Entries() })
}

// RefreshHistory publishes the store's in-memory entries without reading
// storage. Used after the store reloaded itself.
func (d *Detector) RefreshHistory() State {
	return d.update(func(s *State) { s.History = d.history.Entries() })
}

// State returns a snapshot of the current state.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.clone()
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (d *Detector) Subscribe(fn Listener) (unsubscribe func()) {
	d.listenersMu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.listenersMu.Unlock()

	return func() {
		d.listenersMu.Lock()
		delete(d.listeners, id)
		d.listenersMu.Unlock()
	}
}

// update applies fn under the lock and notifies listeners with the result.
// Closures read the history store while the lock is held, so the last
// transition always publishes what the store holds at that moment.
func (d *Detector) update(fn func(*State)) State {
	d.mu.Lock()
	fn(&d.state)
	snapshot := d.state.clone()
	d.mu.Unlock()

	d.notify(snapshot)
	return snapshot
}

func (d *Detector) notify(s State) {
	d.listenersMu.Lock()
	listeners := make([]Listener, 0, len(d.listeners))
	for _, l := range d.listeners {
		listeners = append(listeners, l)
	}
	d.listenersMu.Unlock()

	for _, l := range listeners {
		l(s)
	}
}

// Submit runs the analyze lane. Blank text is a no-op returning (nil, nil).
// On failure the previous result stays current and the lane records the
// error message.
func (d *Detector) Submit(ctx context.Context, text, claimedSource string) (*models.AnalysisResult, error) {
	if isBlank(text) {
		return nil, nil
	}

	d.mu.Lock()
	if d.state.Analyzing {
		d.mu.Unlock()
		return nil, ErrLaneBusy
	}
	d.state.Analyzing = true
	d.state.Error = ""
	snapshot := d.state.clone()
	d.mu.Unlock()
	d.notify(snapshot)

	result, err := d.analyzer.Analyze(ctx, text, claimedSource)
	if errors.Is(err, api.ErrEmptyInput) {
		d.update(func(s *State) { s.Analyzing = false })
		return nil, nil
	}
	if err != nil {
		msg := ErrorMessage(err, DefaultAnalyzeError)
		d.logger.Info("analysis failed", zap.Error(err))
		d.update(func(s *State) {
			s.Analyzing = false
			s.Error = msg
		})
		return nil, err
	}

	if _, herr := d.history.Append(ctx, *result); herr != nil {
		d.logger.Warn("history not persisted", zap.Error(herr))
	}
	d.update(func(s *State) {
		s.Analyzing = false
		current := *result
		s.Current = &current
		s.History = d.history.Entries()
	})
	return result, nil
}

// SubmitScrape runs the scrape lane. The previous scrape result and error
// are cleared as soon as the lane starts.
func (d *Detector) SubmitScrape(ctx context.Context, text string) (*models.ScrapeResult, error) {
	if isBlank(text) {
		return nil, nil
	}

	d.mu.Lock()
	if d.state.Scraping {
		d.mu.Unlock()
		return nil, ErrLaneBusy
	}
	d.state.Scraping = true
	d.state.ScrapeError = ""
	d.state.Scrape = nil
	snapshot := d.state.clone()
	d.mu.Unlock()
	d.notify(snapshot)

	result, err := d.scraper.ScrapeVerify(ctx, text)
	if errors.Is(err, api.ErrEmptyInput) {
		d.update(func(s *State) { s.Scraping = false })
		return nil, nil
	}
	if err != nil {
		msg := ErrorMessage(err, DefaultScrapeError)
		d.logger.Info("scrape failed", zap.Error(err))
		d.update(func(s *State) {
			s.Scraping = false
			s.ScrapeError = msg
		})
		return nil, err
	}

	d.update(func(s *State) {
		s.Scraping = false
		scrape := *result
		s.Scrape = &scrape
	})
	return result, nil
}

// ClearHistory empties the history. In-flight lanes are not cancelled, and
// a completing analysis will add its result to the now-empty history.
func (d *Detector) ClearHistory(ctx context.Context) error {
	err := d.history.Clear(ctx)
	if err != nil {
		d.logger.Warn("history not removed from storage", zap.Error(err))
	}
	d.update(func(s *State) { s.History = d.history.Entries() })
	return err
}

// SelectHistory makes the history entry with the given ID current.
func (d *Detector) SelectHistory(id string) bool {
	entry, ok := d.history.Find(id)
	if !ok {
		return false
	}
	d.Select(entry)
	return true
}

// Select makes result current without touching lanes or history.
func (d *Detector) Select(result models.AnalysisResult) {
	d.update(func(s *State) { s.Current = &result })
}

// ErrorMessage is the text shown for a failed lane. It prefers the backend's
// message and falls back to a generic one.
func ErrorMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
