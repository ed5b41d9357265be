package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/mapview"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData feeds the page template. The page is a static shell: the legend
// is rendered server-side from the bucket table and everything feed-derived,
// status included, comes from /api/map.
type pageData struct {
	Container string
	Variant   mapview.Variant
	Legend    mapview.Legend
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	data := pageData{
		Container: mapview.ContainerID,
		Variant:   s.builder.Variant(),
		Legend:    mapview.NewLegend(),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleMap always answers 200; feed problems are reported in the status block.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.builder.Build(r.Context()))
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, r *http.Request) {
	view := s.builder.Build(r.Context())
	if st, ok := view.Status.Source(feed.SourceQuakes); ok && st.State != mapview.StateOK {
		writeJSON(w, http.StatusBadGateway, st)
		return
	}
	overlay, _ := view.Overlay(mapview.OverlayEarthquakes)
	writeGeoJSON(w, newFeatureCollection(overlay.Markers))
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	view := s.builder.Build(r.Context())
	st, ok := view.Status.Source(feed.SourcePlates)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "plate boundaries are not part of the " + string(view.Variant) + " map",
		})
		return
	}
	if st.State != mapview.StateOK {
		writeJSON(w, http.StatusBadGateway, st)
		return
	}
	overlay, _ := view.Overlay(mapview.OverlayPlates)
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(overlay.GeoJSON)
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Legend())
}

// featureCollection is the GeoJSON shape served by /api/earthquakes: one
// Point feature per marker with the styling in its properties.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string        `json:"type"`
	ID         string        `json:"id,omitempty"`
	Geometry   point         `json:"geometry"`
	Properties domain.Marker `json:"properties"`
}

type point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [lon, lat]
}

func newFeatureCollection(markers []domain.Marker) featureCollection {
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(markers))}
	for _, m := range markers {
		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			ID:         m.ID,
			Geometry:   point{Type: "Point", Coordinates: [2]float64{m.Lon, m.Lat}},
			Properties: m,
		})
	}
	return fc
}

func writeGeoJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
