package feed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// --- mock for cache tests ---

type countingSource struct {
	quakeCalls int
	plateCalls int
	quakes     []domain.Quake
	plates     json.RawMessage
	err        error
}

func (m *countingSource) FetchQuakes(_ context.Context) ([]domain.Quake, error) {
	m.quakeCalls++
	return m.quakes, m.err
}

func (m *countingSource) FetchPlates(_ context.Context) (json.RawMessage, error) {
	m.plateCalls++
	return m.plates, m.err
}

func newCached(inner Source, clock clockwork.Clock) *CachedSource {
	return NewCachedSource(inner, NewMemoryStore(clock), time.Minute, observability.NewMetricsForTesting(), discardLogger())
}

// --- CachedSource tests ---

func TestCachedSource_QuakesCacheHit(t *testing.T) {
	inner := &countingSource{quakes: []domain.Quake{{ID: "a", Magnitude: 3.1, Depth: 12}}}
	cached := newCached(inner, clockwork.NewFakeClock())

	q1, err := cached.FetchQuakes(context.Background())
	require.NoError(t, err)
	q2, err := cached.FetchQuakes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, q1, q2)
	assert.Equal(t, 1, inner.quakeCalls, "should only call inner once")
}

func TestCachedSource_PlatesCacheHit(t *testing.T) {
	inner := &countingSource{plates: json.RawMessage(`{"type":"FeatureCollection","features":[]}`)}
	cached := newCached(inner, clockwork.NewFakeClock())

	_, err := cached.FetchPlates(context.Background())
	require.NoError(t, err)
	p, err := cached.FetchPlates(context.Background())
	require.NoError(t, err)

	assert.JSONEq(t, string(inner.plates), string(p))
	assert.Equal(t, 1, inner.plateCalls)
}

func TestCachedSource_ExpiresAfterTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &countingSource{quakes: []domain.Quake{{ID: "a"}}}
	cached := newCached(inner, clock)

	_, _ = cached.FetchQuakes(context.Background())
	clock.Advance(59 * time.Second)
	_, _ = cached.FetchQuakes(context.Background())
	assert.Equal(t, 1, inner.quakeCalls)

	clock.Advance(2 * time.Second)
	_, _ = cached.FetchQuakes(context.Background())
	assert.Equal(t, 2, inner.quakeCalls)
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("feed down")}
	cached := newCached(inner, clockwork.NewFakeClock())

	_, err := cached.FetchQuakes(context.Background())
	require.Error(t, err)
	_, err = cached.FetchQuakes(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2, inner.quakeCalls)
}

func TestCachedSource_RefreshBypassesCache(t *testing.T) {
	inner := &countingSource{quakes: []domain.Quake{{ID: "old"}}}
	cached := newCached(inner, clockwork.NewFakeClock())

	_, _ = cached.FetchQuakes(context.Background())
	inner.quakes = []domain.Quake{{ID: "new"}}

	refreshed, err := cached.RefreshQuakes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", refreshed[0].ID)

	got, err := cached.FetchQuakes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, 2, inner.quakeCalls)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestCachedSource_StoreFailureFallsThrough(t *testing.T) {
	inner := &countingSource{quakes: []domain.Quake{{ID: "a"}}}
	cached := NewCachedSource(inner, failingStore{}, time.Minute, observability.NewMetricsForTesting(), discardLogger())

	quakes, err := cached.FetchQuakes(context.Background())
	require.NoError(t, err)
	assert.Len(t, quakes, 1)
}

// --- MemoryStore unit tests ---

func TestMemoryStore_BasicGetSet(t *testing.T) {
	s := NewMemoryStore(clockwork.NewFakeClock())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("A"), time.Minute))

	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("A"), v)

	_, ok, _ = s.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryStore_OverwriteResetsExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)
	ctx := context.Background()

	_ = s.Set(ctx, "a", []byte("old"), time.Minute)
	clock.Advance(50 * time.Second)
	_ = s.Set(ctx, "a", []byte("new"), time.Minute)
	clock.Advance(50 * time.Second)

	v, ok, _ := s.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), v)
}

func TestMemoryStore_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)
	ctx := context.Background()

	_ = s.Set(ctx, "a", []byte("A"), time.Second)
	clock.Advance(time.Second)

	_, ok, _ := s.Get(ctx, "a")
	assert.False(t, ok)
	assert.Empty(t, s.entries)
}

func TestMemoryStore_SetSweepsExpiredEntries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)
	ctx := context.Background()

	_ = s.Set(ctx, cacheKey(SourceQuakes), []byte("q"), time.Second)
	clock.Advance(2 * time.Second)
	_ = s.Set(ctx, cacheKey(SourcePlates), []byte("p"), time.Minute)

	assert.Len(t, s.entries, 1)
	assert.Contains(t, s.entries, cacheKey(SourcePlates))
}
