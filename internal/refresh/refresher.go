// Package refresh keeps the feed cache warm on a cron schedule and optionally
// publishes each fresh batch of events.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Warmer re-fetches the feeds, bypassing and then repopulating the cache.
type Warmer interface {
	RefreshQuakes(ctx context.Context) ([]domain.Quake, error)
	RefreshPlates(ctx context.Context) (json.RawMessage, error)
}

// Publisher forwards freshly fetched events downstream.
type Publisher interface {
	Publish(ctx context.Context, quakes []domain.Quake) error
}

// Options configures a Refresher.
type Options struct {
	Schedule string // cron spec or "@every <duration>"
	Plates   bool   // also refresh the plate-boundary feed
	Timeout  time.Duration
}

// Refresher runs the warm-up job on a schedule.
type Refresher struct {
	cron      *cron.Cron
	warmer    Warmer
	publisher Publisher
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	ctx       context.Context

	mu      sync.Mutex
	stopped bool
}

// New creates a Refresher. publisher may be nil.
func New(warmer Warmer, publisher Publisher, opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Refresher, error) {
	r := &Refresher{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		warmer:    warmer,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
		ctx:       context.Background(),
	}
	if _, err := r.cron.AddFunc(opts.Schedule, func() { r.RunOnce(r.ctx) }); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", opts.Schedule, err)
	}
	return r, nil
}

// Start runs one refresh immediately, then hands over to the schedule.
// Scheduled runs stop when ctx is cancelled or Stop is called. If Stop wins
// the race with the first refresh, the schedule is never started.
func (r *Refresher) Start(ctx context.Context) {
	r.ctx = ctx
	r.logger.Info("feed refresher started", "schedule", r.opts.Schedule, "plates", r.opts.Plates)
	r.RunOnce(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped || ctx.Err() != nil {
		return
	}
	r.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	<-r.cron.Stop().Done()
	r.logger.Info("feed refresher stopped")
}

// CheckReadiness returns nil once the earthquake feed has been fetched
// successfully at least once and the latest attempt did not fail.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("earthquake feed has not been fetched successfully")
	}
	return nil
}

// RunOnce refreshes the feeds and publishes the events. Errors are logged and
// counted; the next scheduled run tries again.
func (r *Refresher) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	quakes, err := r.warmer.RefreshQuakes(ctx)
	if err != nil {
		r.ready.Store(false)
		r.metrics.RefreshRuns.WithLabelValues("error").Inc()
		r.logger.Error("earthquake feed refresh failed", "error", err)
		return
	}
	r.ready.Store(true)

	if r.opts.Plates {
		if _, err := r.warmer.RefreshPlates(ctx); err != nil {
			r.logger.Warn("plate feed refresh failed", "error", err)
		}
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, quakes); err != nil {
			r.logger.Error("publish events failed", "error", err, "count", len(quakes))
		} else {
			r.metrics.EventsPublished.Add(float64(len(quakes)))
		}
	}

	r.metrics.RefreshRuns.WithLabelValues("success").Inc()
	r.logger.Info("feeds refreshed", "events", len(quakes))
}
