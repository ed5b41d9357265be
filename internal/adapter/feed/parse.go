package feed

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/tidwall/gjson"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// ParseQuakes extracts events from a USGS GeoJSON FeatureCollection. Features
// without at least [lon, lat] coordinates are skipped and counted. A body that
// is not JSON or has no features array is an error; an empty array is not.
func ParseQuakes(body []byte) ([]domain.Quake, int, error) {
	if !gjson.ValidBytes(body) {
		return nil, 0, errors.New("invalid JSON")
	}
	features := gjson.GetBytes(body, "features")
	if !features.IsArray() {
		return nil, 0, errors.New("missing features array")
	}

	quakes := make([]domain.Quake, 0, len(features.Array()))
	skipped := 0
	features.ForEach(func(_, f gjson.Result) bool {
		q, ok := parseFeature(f)
		if !ok {
			skipped++
			return true
		}
		quakes = append(quakes, q)
		return true
	})
	return quakes, skipped, nil
}

func parseFeature(f gjson.Result) (domain.Quake, bool) {
	coords := f.Get("geometry.coordinates").Array()
	if len(coords) < 2 {
		return domain.Quake{}, false
	}

	props := f.Get("properties")
	q := domain.Quake{
		ID:        f.Get("id").String(),
		Magnitude: props.Get("mag").Float(),
		Place:     props.Get("place").String(),
		Geo:       domain.Geo{Lat: coords[1].Float(), Lon: coords[0].Float()},
		URL:       props.Get("url").String(),
	}
	if len(coords) > 2 {
		q.Depth = coords[2].Float()
	}
	if ms := props.Get("time"); ms.Exists() && ms.Type == gjson.Number {
		q.Time = time.UnixMilli(ms.Int()).UTC()
	}
	return q, true
}

// ParsePlates checks that a plate-boundary body is a GeoJSON object and
// returns it untouched for the map client to draw.
func ParsePlates(body []byte) (json.RawMessage, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON")
	}
	if !gjson.GetBytes(body, "type").Exists() {
		return nil, errors.New("missing GeoJSON type")
	}
	return json.RawMessage(body), nil
}
