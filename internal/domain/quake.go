package domain

import "time"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Quake is one earthquake event parsed from the feed. Values are treated as
// immutable once parsed.
type Quake struct {
	ID        string    `json:"id"`
	Magnitude float64   `json:"magnitude"`
	Depth     float64   `json:"depth"` // kilometres, positive down
	Place     string    `json:"place"`
	Geo       Geo       `json:"geo"`
	Time      time.Time `json:"time,omitzero"`
	URL       string    `json:"url,omitempty"`
}
