package domain

import (
	"math"
	"strconv"
)

// DepthBucket assigns Color to every depth at or above Threshold (km) and
// below the next bucket's threshold.
type DepthBucket struct {
	Threshold float64 `json:"threshold"`
	Color     string  `json:"color"`
}

// depthBuckets is ordered by ascending threshold. The first bucket is the
// default for anything shallower than the second threshold; its threshold is
// only used as the legend's lower label.
var depthBuckets = [...]DepthBucket{
	{Threshold: -10, Color: "#b3f0ff"},
	{Threshold: 10, Color: "#ddff99"},
	{Threshold: 30, Color: "#ffff80"},
	{Threshold: 50, Color: "#ffc266"},
	{Threshold: 70, Color: "#ff6600"},
	{Threshold: 90, Color: "#e60000"},
}

// DepthBuckets returns a copy of the depth colour table in ascending order.
func DepthBuckets() []DepthBucket {
	out := make([]DepthBucket, len(depthBuckets))
	copy(out, depthBuckets[:])
	return out
}

// DefaultDepthColor is the fill for depths below the first real threshold.
func DefaultDepthColor() string {
	return depthBuckets[0].Color
}

// ColorForDepth returns the fill colour for a depth in kilometres. Buckets are
// checked deepest first and are inclusive at their threshold, so a depth of
// exactly 30 gets the 30 km colour. NaN falls through to the default.
func ColorForDepth(depth float64) string {
	if math.IsNaN(depth) {
		return DefaultDepthColor()
	}
	for i := len(depthBuckets) - 1; i > 0; i-- {
		if depth >= depthBuckets[i].Threshold {
			return depthBuckets[i].Color
		}
	}
	return DefaultDepthColor()
}

// LegendEntry is one swatch row of the depth legend.
type LegendEntry struct {
	Color string   `json:"color"`
	Label string   `json:"label"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"` // nil for the open-ended top bucket
}

// Legend builds the depth key from the same table ColorForDepth uses. Closed
// intervals are labelled "low–high km", the deepest bucket "low+ km".
func Legend() []LegendEntry {
	entries := make([]LegendEntry, len(depthBuckets))
	for i, b := range depthBuckets {
		entries[i] = LegendEntry{Color: b.Color, Min: b.Threshold}
		if i+1 < len(depthBuckets) {
			upper := depthBuckets[i+1].Threshold
			entries[i].Max = &upper
			entries[i].Label = formatNumber(b.Threshold) + "–" + formatNumber(upper) + " km"
			continue
		}
		entries[i].Label = formatNumber(b.Threshold) + "+ km"
	}
	return entries
}

// formatNumber prints a float the shortest way that round-trips, so 4.5 stays
// "4.5" and 10 stays "10".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
