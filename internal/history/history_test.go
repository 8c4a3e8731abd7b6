package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/veritas/internal/util"
	"github.com/josephgoksu/veritas/models"
	"github.com/josephgoksu/veritas/store"
)

func result(id string) models.AnalysisResult {
	return models.AnalysisResult{
		ID:            id,
		Text:          "text " + id,
		Title:         "title " + id,
		Content:       "text " + id,
		ClaimedSource: "TECH",
		FakeNews:      models.FakeNewsVerdict{Label: "REAL", Confidence: 0.9},
		StyleAnalysis: models.StyleAnalysis{PredictedSource: "TECH", Confidence: 0.8},
		Timestamp:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func ids(entries []models.AnalysisResult) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// failingKV fails every write.
type failingKV struct {
	*store.MemoryKV
}

func (failingKV) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (failingKV) Remove(context.Context, string) error      { return errors.New("storage unavailable") }

func TestLoad_AbsentKeyIsEmpty(t *testing.T) {
	s := New(store.NewMemoryKV())
	assert.Empty(t, s.Load(context.Background()))
}

func TestAppend_MostRecentFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := New(kv)

	for i := 1; i <= 12; i++ {
		_, err := s.Append(ctx, result(fmt.Sprintf("r%d", i)))
		require.NoError(t, err)
	}

	want := []string{"r12", "r11", "r10", "r9", "r8", "r7", "r6", "r5", "r4", "r3"}
	assert.Equal(t, want, ids(s.Entries()))

	reloaded := New(kv).Load(ctx)
	assert.Equal(t, want, ids(reloaded), "persisted snapshot should match memory")
}

func TestAppend_RoundTripsThroughFileKV(t *testing.T) {
	ctx := context.Background()
	kv, err := store.NewFileKV(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	s := New(kv)
	_, err = s.Append(ctx, result("a"))
	require.NoError(t, err)

	got := New(kv).Load(ctx)
	require.Len(t, got, 1)
	if diff := cmp.Diff(result("a"), got[0]); diff != "" {
		t.Errorf("loaded entry mismatch (-want +got):\n%s", diff)
	}
}

func TestClear_RemovesKey(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := New(kv)
	_, err := s.Append(ctx, result("a"))
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Entries())
	assert.False(t, kv.Has(Key), "clear should remove the key, not write an empty list")
	assert.Empty(t, New(kv).Load(ctx))
}

func TestLoad_DiscardsIncompleteEntries(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	snapshot := `[
		{"id":"ok","text":"t","fakeNews":{"label":"FAKE","confidence":0.7},"styleAnalysis":{"predictedSource":"WORLD NEWS","confidence":0.5},"timestamp":"2025-03-01T12:00:00Z"},
		{"id":"no-fake","text":"t","styleAnalysis":{"predictedSource":"TECH","confidence":0.5}},
		{"id":"no-style","text":"t","fakeNews":{"label":"REAL","confidence":0.5}},
		{"id":"null-fake","fakeNews":null,"styleAnalysis":{"predictedSource":"TECH","confidence":0.5}},
		{"id":"bad-time","fakeNews":{"label":"REAL","confidence":0.5},"styleAnalysis":{"predictedSource":"TECH","confidence":0.5},"timestamp":"yesterday"}
	]`
	require.NoError(t, kv.Set(ctx, Key, []byte(snapshot)))

	got := New(kv).Load(ctx)
	assert.Equal(t, []string{"ok", "bad-time"}, ids(got))
	assert.Equal(t, "FAKE", got[0].FakeNews.Label)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), got[0].Timestamp)
	assert.True(t, got[1].Timestamp.IsZero())
}

func TestLoad_TimestampForms(t *testing.T) {
	want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		timestamp string
		want      time.Time
	}{
		{"rfc3339", `"2025-03-01T12:00:00Z"`, want},
		{"rfc3339 with millis", `"2025-03-01T12:00:00.000Z"`, want},
		{"epoch millis", fmt.Sprint(want.UnixMilli()), want},
		{"date only", `"2025-03-01"`, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"boolean", `true`, time.Time{}},
		{"missing", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := store.NewMemoryKV()
			snapshot := `[{"id":"x","fakeNews":{"label":"REAL"},"styleAnalysis":{"predictedSource":"TECH"},"timestamp":` + tt.timestamp + `}]`
			require.NoError(t, kv.Set(ctx, Key, []byte(snapshot)))

			got := New(kv).Load(ctx)
			require.Len(t, got, 1, "the entry is kept whatever the timestamp form")
			assert.True(t, tt.want.Equal(got[0].Timestamp), "got %v", got[0].Timestamp)
		})
	}
}

func TestLoad_MalformedSnapshotIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
	}{
		{"not json", `{{{`},
		{"object instead of list", `{"id":"x"}`},
		{"truncated", `[{"id":"x","fakeNews":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryKV()
			require.NoError(t, kv.Set(context.Background(), Key, []byte(tt.snapshot)))
			assert.Empty(t, New(kv).Load(context.Background()))
		})
	}
}

func TestAppend_PersistFailureKeepsMemory(t *testing.T) {
	s := New(failingKV{store.NewMemoryKV()})

	entries, err := s.Append(context.Background(), result("a"))
	assert.Error(t, err)
	assert.Equal(t, []string{"a"}, ids(entries))
	assert.Equal(t, []string{"a"}, ids(s.Entries()))
}

func TestClear_FailureStillEmptiesMemory(t *testing.T) {
	s := New(failingKV{store.NewMemoryKV()})
	_, _ = s.Append(context.Background(), result("a"))

	assert.Error(t, s.Clear(context.Background()))
	assert.Empty(t, s.Entries())
}

func TestEntries_ReturnsCopy(t *testing.T) {
	s := New(store.NewMemoryKV())
	_, _ = s.Append(context.Background(), result("a"))

	e := s.Entries()
	e[0].ID = "mutated"
	assert.Equal(t, "a", s.Entries()[0].ID)
}

func TestWithKey(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := New(kv, WithKey("custom"))
	_, err := s.Append(ctx, result("a"))
	require.NoError(t, err)

	assert.True(t, kv.Has("custom"))
	assert.False(t, kv.Has(Key))
}

func TestFindAndResolve(t *testing.T) {
	s := New(store.NewMemoryKV())
	ctx := context.Background()
	for _, id := range []string{"abc-1", "abd-2", "xyz-3"} {
		_, _ = s.Append(ctx, result(id))
	}

	e, ok := s.Find("xyz-3")
	assert.True(t, ok)
	assert.Equal(t, "xyz-3", e.ID)

	_, ok = s.Find("missing")
	assert.False(t, ok)

	e, err := s.Resolve("xy")
	require.NoError(t, err)
	assert.Equal(t, "xyz-3", e.ID)

	_, err = s.Resolve("ab")
	assert.ErrorIs(t, err, util.ErrAmbiguousID)

	_, err = s.Resolve("nope")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestReload_PicksUpExternalWrites(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := New(kv)
	s.Load(ctx)

	other := New(kv)
	_, err := other.Append(ctx, result("external"))
	require.NoError(t, err)

	assert.Empty(t, s.Entries())
	assert.Equal(t, []string{"external"}, ids(s.Reload(ctx)))
}

func TestWatch_UnsupportedBackend(t *testing.T) {
	s := New(store.NewMemoryKV())
	assert.False(t, s.Watch(context.Background(), nil))
}

func TestEdition(t *testing.T) {
	assert.Equal(t, 3, Edition(3, 0))
	assert.Equal(t, 1, Edition(3, 2))
}
