// Package history keeps the bounded, most-recent-first list of past
// analysis results and mirrors it into a store.KV snapshot.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/josephgoksu/veritas/internal/util"
	"github.com/josephgoksu/veritas/models"
	"github.com/josephgoksu/veritas/store"
)

const (
	// Key is the storage key the snapshot lives under.
	Key = "newsCheckHistory"
	// MaxEntries is how many results are retained.
	MaxEntries = 10
)

// Store is the in-memory history plus its persisted snapshot. It is safe
// for concurrent use.
type Store struct {
	kv     store.KV
	key    string
	logger *zap.Logger

	mu      sync.RWMutex
	entries []models.AnalysisResult
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty Store backed by kv. Call Load to read the snapshot.
func New(kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    Key,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with the persisted snapshot. A missing,
// unreadable or malformed snapshot yields an empty history; Load never fails.
func (s *Store) Load(ctx context.Context) []models.AnalysisResult {
	entries := s.read(ctx)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	return s.Entries()
}

// Reload re-reads the snapshot after an external change.
func (s *Store) Reload(ctx context.Context) []models.AnalysisResult {
	return s.Load(ctx)
}

func (s *Store) read(ctx context.Context) []models.AnalysisResult {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Debug("history snapshot unreadable", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	entries, err := decode(data)
	if err != nil {
		s.logger.Debug("history snapshot malformed", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	return entries
}

// storedEntry mirrors AnalysisResult with a loosely typed timestamp so one
// bad timestamp does not discard the whole entry.
type storedEntry struct {
	models.AnalysisResult
	Timestamp json.RawMessage `json:"timestamp"`
}

// timestampLayouts are the string forms accepted for stored timestamps.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseTimestamp accepts an RFC 3339 style string or epoch milliseconds.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	v := gjson.ParseBytes(raw)
	switch v.Type {
	case gjson.Number:
		return time.UnixMilli(v.Int()).UTC(), true
	case gjson.String:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, v.Str); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// decode parses a snapshot, dropping entries without both classifier outcomes.
func decode(data []byte) ([]models.AnalysisResult, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	entries := make([]models.AnalysisResult, 0, len(raw))
	for _, item := range raw {
		if !present(gjson.GetBytes(item, "fakeNews")) || !present(gjson.GetBytes(item, "styleAnalysis")) {
			continue
		}
		var e storedEntry
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		result := e.AnalysisResult
		if ts, ok := parseTimestamp(e.Timestamp); ok {
			result.Timestamp = ts
		}
		entries = append(entries, result)
		if len(entries) == MaxEntries {
			break
		}
	}
	return entries, nil
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// Append prepends result, drops entries beyond MaxEntries and persists the
// list. The in-memory list is updated even when persisting fails.
func (s *Store) Append(ctx context.Context, result models.AnalysisResult) ([]models.AnalysisResult, error) {
	s.mu.Lock()
	next := make([]models.AnalysisResult, 0, MaxEntries)
	next = append(next, result)
	for _, e := range s.entries {
		if len(next) == MaxEntries {
			break
		}
		next = append(next, e)
	}
	s.entries = next
	snapshot := cloneEntries(next)
	s.mu.Unlock()

	if err := s.persist(ctx, snapshot); err != nil {
		s.logger.Warn("failed to persist history", zap.String("key", s.key), zap.Error(err))
		return snapshot, err
	}
	return snapshot, nil
}

func (s *Store) persist(ctx context.Context, entries []models.AnalysisResult) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Clear empties the history and removes the snapshot entirely.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.logger.Warn("failed to remove history", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

// Entries returns a copy of the history, most recent first.
func (s *Store) Entries() []models.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Find returns the entry with the given ID.
func (s *Store) Find(id string) (models.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.AnalysisResult{}, false
}

// Resolve finds an entry by full ID or unique ID prefix.
func (s *Store) Resolve(idOrPrefix string) (models.AnalysisResult, error) {
	s.mu.RLock()
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	s.mu.RUnlock()

	id, err := util.ResolveID(idOrPrefix, ids, "history entry")
	if err != nil {
		return models.AnalysisResult{}, err
	}
	e, ok := s.Find(id)
	if !ok {
		return models.AnalysisResult{}, fmt.Errorf("history entry %q: %w", id, util.ErrNotFound)
	}
	return e, nil
}

// Edition returns the display number of the entry at index i: the newest
// entry carries the highest number.
func Edition(total, i int) int {
	return total - i
}

func cloneEntries(in []models.AnalysisResult) []models.AnalysisResult {
	if len(in) == 0 {
		return []models.AnalysisResult{}
	}
	out := make([]models.AnalysisResult, len(in))
	copy(out, in)
	return out
}
