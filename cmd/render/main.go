// Command render builds the map description from GeoJSON files on disk instead
// of the live feeds. It runs the same parsing, styling and assembly code as the
// service, which makes it useful for producing test fixtures and for checking
// how a saved feed would be drawn.
//
// Usage:
//
//	go run ./cmd/render \
//	  -quakes testdata/all_week.geojson \
//	  -plates testdata/PB2002_plates.json \
//	  -variant tectonic \
//	  -out data/map.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/mapview"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	quakesPath := fs.String("quakes", "", "path to a USGS GeoJSON earthquake feed")
	platesPath := fs.String("plates", "", "path to a plate-boundary GeoJSON file (tectonic variant)")
	variantName := fs.String("variant", "tectonic", "map variant: basic or tectonic")
	out := fs.String("out", "", "output path for the map JSON (stdout when empty)")
	generatedAt := fs.String("generated-at", "", "fixed RFC3339 timestamp for reproducible output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *quakesPath == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -quakes")
	}
	variant, err := mapview.ParseVariant(*variantName)
	if err != nil {
		return err
	}

	if *generatedAt != "" {
		ts, err := time.Parse(time.RFC3339, *generatedAt)
		if err != nil {
			return fmt.Errorf("parse -generated-at: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(ts))
		defer domain.SetClock(nil)
	}

	src := fileSource{quakesPath: *quakesPath, platesPath: *platesPath}
	var plates mapview.PlateSource
	if *platesPath != "" {
		plates = src
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	assembler := mapview.NewAssembler(src, plates, mapview.Options{
		Variant: variant,
		Center:  domain.Geo{Lat: 37.09, Lon: -95.71},
		Zoom:    5,
	}, logger, observability.NewMetricsForTesting())

	view := assembler.Build(context.Background())
	for _, st := range view.Status.Sources {
		if st.State != mapview.StateOK {
			return fmt.Errorf("%s: %s: %s", st.Source, st.State, st.Message)
		}
	}

	if err := writeJSON(stdout, *out, view); err != nil {
		return fmt.Errorf("writing map: %w", err)
	}
	if *out != "" {
		fmt.Fprintf(stderr, "wrote map: %s\n", *out)
	}

	overlay, _ := view.Overlay(mapview.OverlayEarthquakes)
	printStats(stderr, overlay.Markers)
	return nil
}

// fileSource serves both feeds from local files.
type fileSource struct {
	quakesPath string
	platesPath string
}

func (f fileSource) FetchQuakes(_ context.Context) ([]domain.Quake, error) {
	body, err := os.ReadFile(f.quakesPath)
	if err != nil {
		return nil, &feed.FetchError{Source: feed.SourceQuakes, Kind: feed.KindFeed, Err: err}
	}
	quakes, skipped, err := feed.ParseQuakes(body)
	if err != nil {
		return nil, &feed.FetchError{Source: feed.SourceQuakes, Kind: feed.KindParse, Err: err}
	}
	if skipped > 0 {
		log.Printf("skipped %d features without coordinates", skipped)
	}
	return quakes, nil
}

func (f fileSource) FetchPlates(_ context.Context) (json.RawMessage, error) {
	body, err := os.ReadFile(f.platesPath)
	if err != nil {
		return nil, &feed.FetchError{Source: feed.SourcePlates, Kind: feed.KindFeed, Err: err}
	}
	plates, err := feed.ParsePlates(body)
	if err != nil {
		return nil, &feed.FetchError{Source: feed.SourcePlates, Kind: feed.KindParse, Err: err}
	}
	return plates, nil
}

func writeJSON(stdout io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// printStats reports how many markers fall into each legend bucket and the
// magnitude range, in legend order.
func printStats(w io.Writer, markers []domain.Marker) {
	counts := make(map[string]int)
	minMag, maxMag := math.Inf(1), math.Inf(-1)
	for _, m := range markers {
		counts[m.FillColor]++
		minMag = math.Min(minMag, m.Magnitude)
		maxMag = math.Max(maxMag, m.Magnitude)
	}

	fmt.Fprintf(w, "\n=== %d events ===\n", len(markers))
	if len(markers) == 0 {
		return
	}
	fmt.Fprintf(w, "  magnitude %g to %g\n", minMag, maxMag)
	fmt.Fprintln(w, "  by depth:")
	for _, e := range domain.Legend() {
		fmt.Fprintf(w, "    %-10s %-9s %d\n", e.Label, e.Color, counts[e.Color])
	}
}
