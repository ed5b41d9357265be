package domain

import (
	"fmt"
	"html"
)

// MarkerScale is the marker radius in pixels per unit of magnitude.
const MarkerScale = 4.0

// Stroke styling shared by every earthquake marker.
const (
	markerStrokeColor   = "#000"
	markerStrokeWeight  = 1
	markerStrokeOpacity = 1.0
	markerFillOpacity   = 0.7
)

// MarkerStyle selects which info panels are attached to each marker.
type MarkerStyle struct {
	// Tooltip adds a hover tooltip alongside the click popup.
	Tooltip bool
}

// Marker is a circle marker ready for the map client to draw.
type Marker struct {
	ID          string  `json:"id,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Radius      float64 `json:"radius"`
	FillColor   string  `json:"fill_color"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fill_opacity"`
	Popup       string  `json:"popup"`
	Tooltip     string  `json:"tooltip,omitempty"`

	Magnitude float64 `json:"magnitude"`
	Depth     float64 `json:"depth"`
	Place     string  `json:"place"`
}

// MarkerRadius scales magnitude linearly. Zero and negative magnitudes give
// zero and negative radii; clamping is left to the drawing client.
func MarkerRadius(magnitude float64) float64 {
	return magnitude * MarkerScale
}

// PopupHTML renders the click popup for a quake.
func PopupHTML(q Quake) string {
	return fmt.Sprintf("<h3>Location: %s</h3><p>Magnitude: %s</p><p>Depth: %s km</p>",
		html.EscapeString(q.Place), formatNumber(q.Magnitude), formatNumber(q.Depth))
}

// TooltipHTML renders the hover tooltip for a quake.
func TooltipHTML(q Quake) string {
	return fmt.Sprintf("<strong>Location:</strong> %s<br><strong>Magnitude:</strong> %s<br><strong>Depth:</strong> %s km",
		html.EscapeString(q.Place), formatNumber(q.Magnitude), formatNumber(q.Depth))
}

// NewMarker styles a single quake.
func NewMarker(q Quake, style MarkerStyle) Marker {
	m := Marker{
		ID:          q.ID,
		Lat:         q.Geo.Lat,
		Lon:         q.Geo.Lon,
		Radius:      MarkerRadius(q.Magnitude),
		FillColor:   ColorForDepth(q.Depth),
		Color:       markerStrokeColor,
		Weight:      markerStrokeWeight,
		Opacity:     markerStrokeOpacity,
		FillOpacity: markerFillOpacity,
		Popup:       PopupHTML(q),
		Magnitude:   q.Magnitude,
		Depth:       q.Depth,
		Place:       q.Place,
	}
	if style.Tooltip {
		m.Tooltip = TooltipHTML(q)
	}
	return m
}

// BuildMarkers styles every quake in feed order. It never returns nil, so an
// empty feed serializes as an empty list.
func BuildMarkers(quakes []Quake, style MarkerStyle) []Marker {
	markers := make([]Marker, 0, len(quakes))
	for _, q := range quakes {
		markers = append(markers, NewMarker(q, style))
	}
	return markers
}
