package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Source is anything that can produce both feeds.
type Source interface {
	FetchQuakes(ctx context.Context) ([]domain.Quake, error)
	FetchPlates(ctx context.Context) (json.RawMessage, error)
}

// Store holds encoded feed payloads with an expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSource wraps a Source with a TTL cache so page loads do not hit the
// public feeds every time. Failed fetches are never cached.
type CachedSource struct {
	inner   Source
	store   Store
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedSource creates a cache decorator around a feed source.
func NewCachedSource(inner Source, store Store, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:   inner,
		store:   store,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CachedSource) FetchQuakes(ctx context.Context) ([]domain.Quake, error) {
	if data, ok := c.lookup(ctx, SourceQuakes); ok {
		var quakes []domain.Quake
		if err := json.Unmarshal(data, &quakes); err == nil {
			return quakes, nil
		}
		c.logger.Warn("discarding undecodable cache entry", "source", SourceQuakes)
	}
	return c.RefreshQuakes(ctx)
}

func (c *CachedSource) FetchPlates(ctx context.Context) (json.RawMessage, error) {
	if data, ok := c.lookup(ctx, SourcePlates); ok {
		return json.RawMessage(data), nil
	}
	return c.RefreshPlates(ctx)
}

// RefreshQuakes bypasses the cache, fetches the earthquake feed and stores the
// result on success.
func (c *CachedSource) RefreshQuakes(ctx context.Context) ([]domain.Quake, error) {
	quakes, err := c.inner.FetchQuakes(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(quakes); err == nil {
		c.save(ctx, SourceQuakes, data)
	}
	return quakes, nil
}

// RefreshPlates bypasses the cache, fetches the plate feed and stores the
// result on success.
func (c *CachedSource) RefreshPlates(ctx context.Context) (json.RawMessage, error) {
	plates, err := c.inner.FetchPlates(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, SourcePlates, plates)
	return plates, nil
}

func (c *CachedSource) lookup(ctx context.Context, source string) ([]byte, bool) {
	data, ok, err := c.store.Get(ctx, cacheKey(source))
	if err != nil {
		c.logger.Warn("feed cache read failed", "source", source, "error", err)
	}
	if err != nil || !ok {
		c.metrics.FeedCache.WithLabelValues(source, "miss").Inc()
		return nil, false
	}
	c.metrics.FeedCache.WithLabelValues(source, "hit").Inc()
	return data, true
}

func (c *CachedSource) save(ctx context.Context, source string, data []byte) {
	if err := c.store.Set(ctx, cacheKey(source), data, c.ttl); err != nil {
		c.logger.Warn("feed cache write failed", "source", source, "error", err)
	}
}

func cacheKey(source string) string {
	return "feed:" + source
}

// MemoryStore is a thread-safe in-process store with per-entry expiry. It
// holds one entry per feed, so there is no size bound; expired entries are
// dropped on read and swept on write.
type MemoryStore struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value   []byte
	expires time.Time
}

// NewMemoryStore creates an empty store. A nil clock uses real time.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !s.clock.Now().Before(e.expires) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = entry{value: value, expires: now.Add(ttl)}
	return nil
}
