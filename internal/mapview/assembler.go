package mapview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// QuakeSource produces the earthquake events.
type QuakeSource interface {
	FetchQuakes(ctx context.Context) ([]domain.Quake, error)
}

// PlateSource produces the plate-boundary GeoJSON.
type PlateSource interface {
	FetchPlates(ctx context.Context) (json.RawMessage, error)
}

// Options fixes the map layout.
type Options struct {
	Variant Variant
	Center  domain.Geo
	Zoom    int
}

// Assembler builds MapViews from the feeds.
type Assembler struct {
	quakes  QuakeSource
	plates  PlateSource
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAssembler creates an Assembler. plates may be nil for the basic variant.
func NewAssembler(quakes QuakeSource, plates PlateSource, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Assembler {
	return &Assembler{
		quakes:  quakes,
		plates:  plates,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// Variant reports the configured variant.
func (a *Assembler) Variant() Variant {
	return a.opts.Variant
}

// Build fetches the feeds and assembles the map. It does not fail: a feed that
// cannot be fetched leaves its overlay empty and is reported in Status, so the
// page always has base layers to show.
func (a *Assembler) Build(ctx context.Context) MapView {
	withPlates := a.opts.Variant == VariantTectonic && a.plates != nil

	var (
		quakes   []domain.Quake
		quakeErr error
		plates   json.RawMessage
		plateErr error
		fetchers errgroup.Group
	)
	// Each fetch keeps its own error so one failing feed never cancels or
	// hides the other; the group only joins the goroutines.
	fetchers.Go(func() error {
		quakes, quakeErr = a.quakes.FetchQuakes(ctx)
		return nil
	})
	if withPlates {
		fetchers.Go(func() error {
			plates, plateErr = a.plates.FetchPlates(ctx)
			return nil
		})
	}
	fetchers.Wait() //nolint:errcheck // closures always return nil

	markers := domain.BuildMarkers(quakes, markerStyle(a.opts.Variant))

	view := MapView{
		Container:   ContainerID,
		Variant:     a.opts.Variant,
		Center:      a.opts.Center,
		Zoom:        a.opts.Zoom,
		BaseLayers:  baseLayers(a.opts.Variant),
		Legend:      NewLegend(),
		GeneratedAt: domain.Now(),
	}
	view.Overlays = append(view.Overlays, Overlay{
		Name:    OverlayEarthquakes,
		Active:  true,
		Markers: markers,
	})
	view.Status.Sources = append(view.Status.Sources, sourceStatus(feed.SourceQuakes, quakeErr, len(markers)))

	if withPlates {
		style := plateStyle
		view.Overlays = append(view.Overlays, Overlay{
			Name:    OverlayPlates,
			GeoJSON: plates,
			Style:   &style,
		})
		view.Status.Sources = append(view.Status.Sources, sourceStatus(feed.SourcePlates, plateErr, 0))
	}
	if a.opts.Variant == VariantTectonic {
		tooltip := quakeTooltip
		view.Tooltip = &tooltip
	}

	view.Control = LayerControl{Collapsed: false}
	for _, l := range view.BaseLayers {
		view.Control.BaseLayers = append(view.Control.BaseLayers, l.Name)
	}
	for _, o := range view.Overlays {
		view.Control.Overlays = append(view.Control.Overlays, o.Name)
	}

	a.record(view, quakeErr, plateErr)
	return view
}

func (a *Assembler) record(view MapView, quakeErr, plateErr error) {
	status := "ok"
	if !view.Status.OK() {
		status = "degraded"
	}
	a.metrics.MapBuilds.WithLabelValues(status).Inc()

	markers := 0
	if overlay, ok := view.Overlay(OverlayEarthquakes); ok {
		markers = len(overlay.Markers)
	}
	a.metrics.MarkersRendered.Set(float64(markers))

	if quakeErr != nil {
		a.logger.Warn("earthquake feed unavailable, rendering without markers", "error", quakeErr)
	}
	if plateErr != nil {
		a.logger.Warn("plate feed unavailable, rendering without boundaries", "error", plateErr)
	}
}

// sourceStatus maps a fetch result onto the status reported to the page.
func sourceStatus(source string, err error, count int) SourceStatus {
	if err == nil {
		return SourceStatus{Source: source, State: StateOK, Count: count}
	}

	st := SourceStatus{Source: source, State: StateFeedError, Message: err.Error()}
	var fe *feed.FetchError
	if errors.As(err, &fe) && fe.Kind == feed.KindParse {
		st.State = StateParseError
	}
	return st
}
