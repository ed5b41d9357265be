// Package mapview assembles the web map description: fixed view, base tile
// layers, the earthquake and plate-boundary overlays, the layer control and
// the depth legend.
package mapview

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Variant selects how rich the map is.
type Variant string

const (
	// VariantBasic has one grayscale base layer and popups only.
	VariantBasic Variant = "basic"
	// VariantTectonic adds satellite and outdoors base layers, the plate
	// boundary overlay and hover tooltips.
	VariantTectonic Variant = "tectonic"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantBasic, VariantTectonic:
		return v, nil
	default:
		return "", fmt.Errorf("unknown map variant %q", s)
	}
}

// Overlay names shown in the layer control.
const (
	OverlayEarthquakes = "Earthquakes"
	OverlayPlates      = "Tectonic Plates"
)

// ContainerID is the id of the element the map is drawn into.
const ContainerID = "map"

// TileLayer is a selectable background map style.
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Active      bool   `json:"active"`
}

// PathStyle styles GeoJSON outlines.
type PathStyle struct {
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fill_opacity"`
}

// TooltipOptions configures hover tooltips on markers.
type TooltipOptions struct {
	Permanent bool   `json:"permanent"`
	Direction string `json:"direction"`
	Offset    [2]int `json:"offset"`
}

// Overlay is a toggleable data layer drawn over the base layer. Exactly one of
// Markers or GeoJSON is set.
type Overlay struct {
	Name    string          `json:"name"`
	Active  bool            `json:"active"`
	Markers []domain.Marker `json:"markers,omitempty"`
	GeoJSON json.RawMessage `json:"geojson,omitempty"`
	Style   *PathStyle      `json:"style,omitempty"`
}

// LayerControl lists the layers the user can switch between.
type LayerControl struct {
	Collapsed  bool     `json:"collapsed"`
	BaseLayers []string `json:"base_layers"`
	Overlays   []string `json:"overlays"`
}

// Legend is the depth colour key.
type Legend struct {
	Position string               `json:"position"`
	Title    string               `json:"title"`
	Entries  []domain.LegendEntry `json:"entries"`
}

// SourceState is the outcome of fetching one feed.
type SourceState string

const (
	StateOK         SourceState = "ok"
	StateFeedError  SourceState = "feed_error"
	StateParseError SourceState = "parse_error"
)

// SourceStatus reports how one feed fared during assembly.
type SourceStatus struct {
	Source  string      `json:"source"`
	State   SourceState `json:"state"`
	Message string      `json:"message,omitempty"`
	Count   int         `json:"count,omitempty"`
}

// Status collects the per-feed outcomes of a build.
type Status struct {
	Sources []SourceStatus `json:"sources"`
}

// OK reports whether every feed was fetched successfully.
func (s Status) OK() bool {
	for _, src := range s.Sources {
		if src.State != StateOK {
			return false
		}
	}
	return true
}

// Source returns the status for a named feed.
func (s Status) Source(name string) (SourceStatus, bool) {
	for _, src := range s.Sources {
		if src.Source == name {
			return src, true
		}
	}
	return SourceStatus{}, false
}

// MapView is everything the browser needs to draw the map.
type MapView struct {
	Container   string          `json:"container"`
	Variant     Variant         `json:"variant"`
	Center      domain.Geo      `json:"center"`
	Zoom        int             `json:"zoom"`
	BaseLayers  []TileLayer     `json:"base_layers"`
	Overlays    []Overlay       `json:"overlays"`
	Control     LayerControl    `json:"control"`
	Tooltip     *TooltipOptions `json:"tooltip,omitempty"`
	Legend      Legend          `json:"legend"`
	Status      Status          `json:"status"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Overlay returns the named overlay.
func (v MapView) Overlay(name string) (Overlay, bool) {
	for _, o := range v.Overlays {
		if o.Name == name {
			return o, true
		}
	}
	return Overlay{}, false
}
