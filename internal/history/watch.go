package history

import (
	"context"

	"go.uber.org/zap"

	"github.com/josephgoksu/veritas/store"
)

// Watch reloads the history whenever another process rewrites the snapshot
// and then calls onReload with the fresh entries. It reports false when the
// backend cannot be watched.
func (s *Store) Watch(ctx context.Context, onReload func()) bool {
	w, ok := s.kv.(store.Watcher)
	if !ok {
		return false
	}
	err := w.Watch(ctx, s.key, func() {
		entries := s.Reload(ctx)
		s.logger.Debug("history reloaded", zap.Int("entries", len(entries)))
		if onReload != nil {
			onReload()
		}
	})
	if err != nil {
		s.logger.Debug("history watch unavailable", zap.Error(err))
		return false
	}
	return true
}
