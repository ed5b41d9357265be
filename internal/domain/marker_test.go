package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMarkerRadius(t *testing.T) {
	assert.Equal(t, 18.0, MarkerRadius(4.5))
	assert.Equal(t, 4.0, MarkerRadius(1))
	assert.Equal(t, 0.0, MarkerRadius(0))
	assert.Equal(t, -2.0, MarkerRadius(-0.5))

	// linear: r(a+b) == r(a)+r(b)
	assert.InDelta(t, MarkerRadius(2.1)+MarkerRadius(3.4), MarkerRadius(5.5), 1e-9)
}

func TestPopupHTML(t *testing.T) {
	q := Quake{Place: "10 km SW of Volcano, Hawaii", Magnitude: 2.34, Depth: 1.5}
	assert.Equal(t,
		"<h3>Location: 10 km SW of Volcano, Hawaii</h3><p>Magnitude: 2.34</p><p>Depth: 1.5 km</p>",
		PopupHTML(q))
}

func TestTooltipHTML(t *testing.T) {
	q := Quake{Place: "Ridgecrest, CA", Magnitude: 7, Depth: 8}
	assert.Equal(t,
		"<strong>Location:</strong> Ridgecrest, CA<br><strong>Magnitude:</strong> 7<br><strong>Depth:</strong> 8 km",
		TooltipHTML(q))
}

func TestPopupHTML_EscapesPlace(t *testing.T) {
	q := Quake{Place: `<script>alert("x")</script>`}
	got := PopupHTML(q)
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
}

func TestNewMarker(t *testing.T) {
	q := Quake{
		ID:        "us7000abcd",
		Magnitude: 5.2,
		Depth:     35,
		Place:     "Off the coast of Oregon",
		Geo:       Geo{Lat: 44.1, Lon: -126.3},
	}

	want := Marker{
		ID:          "us7000abcd",
		Lat:         44.1,
		Lon:         -126.3,
		Radius:      20.8,
		FillColor:   "#ffff80",
		Color:       "#000",
		Weight:      1,
		Opacity:     1,
		FillOpacity: 0.7,
		Popup:       PopupHTML(q),
		Magnitude:   5.2,
		Depth:       35,
		Place:       "Off the coast of Oregon",
	}

	got := NewMarker(q, MarkerStyle{})
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	})); diff != "" {
		t.Fatalf("marker mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, got.Tooltip)

	withTooltip := NewMarker(q, MarkerStyle{Tooltip: true})
	assert.Equal(t, TooltipHTML(q), withTooltip.Tooltip)
	assert.Equal(t, got.Popup, withTooltip.Popup)
}

func TestBuildMarkers_PreservesOrder(t *testing.T) {
	quakes := []Quake{
		{ID: "b", Magnitude: 1, Depth: 95},
		{ID: "a", Magnitude: 3, Depth: 5},
		{ID: "a", Magnitude: 3, Depth: 5},
	}
	markers := BuildMarkers(quakes, MarkerStyle{})

	assert.Len(t, markers, 3)
	assert.Equal(t, "b", markers[0].ID)
	assert.Equal(t, "#e60000", markers[0].FillColor)
	assert.Equal(t, "#b3f0ff", markers[1].FillColor)
}

func TestBuildMarkers_EmptyIsNotNil(t *testing.T) {
	markers := BuildMarkers(nil, MarkerStyle{Tooltip: true})
	assert.NotNil(t, markers)
	assert.Empty(t, markers)
}
