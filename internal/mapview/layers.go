package mapview

import "github.com/couchcryptid/quake-map-service/internal/domain"

var (
	satelliteLayer = TileLayer{
		Name:        "Satellite",
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: `&copy; <a href="https://www.esri.com/">Esri</a> | &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
	}
	grayscaleLayer = TileLayer{
		Name:        "Grayscale",
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap contributors, © CartoDB",
	}
	outdoorsLayer = TileLayer{
		Name:        "Outdoors",
		URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: "Map style by OpenTopoMap, under CC BY-SA 3.0",
	}
)

var plateStyle = PathStyle{
	Color:       "#ff6600",
	Weight:      2,
	Opacity:     0.7,
	FillOpacity: 0,
}

var quakeTooltip = TooltipOptions{
	Permanent: false,
	Direction: "top",
	Offset:    [2]int{0, -5},
}

// baseLayers returns the background styles for a variant; the first one is
// shown on load.
func baseLayers(v Variant) []TileLayer {
	var layers []TileLayer
	switch v {
	case VariantTectonic:
		layers = []TileLayer{satelliteLayer, grayscaleLayer, outdoorsLayer}
	default:
		layers = []TileLayer{grayscaleLayer}
	}
	layers[0].Active = true
	return layers
}

func markerStyle(v Variant) domain.MarkerStyle {
	return domain.MarkerStyle{Tooltip: v == VariantTectonic}
}

// NewLegend returns the depth key as drawn in the map corner. It does not
// depend on feed data.
func NewLegend() Legend {
	return Legend{
		Position: "bottomright",
		Title:    "Depth",
		Entries:  domain.Legend(),
	}
}
