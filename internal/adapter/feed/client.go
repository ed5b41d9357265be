package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// maxBodyBytes caps a feed download. The weekly USGS feed is a few MB and the
// PB2002 plates file under 2 MB.
const maxBodyBytes = 64 << 20

// Client fetches the earthquake and plate-boundary feeds over HTTP.
type Client struct {
	quakesURL  string
	platesURL  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client. timeout bounds each request.
func NewClient(quakesURL, platesURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		quakesURL: quakesURL,
		platesURL: platesURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchQuakes downloads and parses the earthquake feed.
func (c *Client) FetchQuakes(ctx context.Context) ([]domain.Quake, error) {
	body, err := c.get(ctx, SourceQuakes, c.quakesURL)
	if err != nil {
		return nil, err
	}

	quakes, skipped, err := ParseQuakes(body)
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(SourceQuakes, string(KindParse)).Inc()
		return nil, parseError(SourceQuakes, err)
	}
	if skipped > 0 {
		c.metrics.FeaturesSkipped.Add(float64(skipped))
		c.logger.Warn("skipped features without coordinates", "source", SourceQuakes, "skipped", skipped)
	}

	c.metrics.FeedRequests.WithLabelValues(SourceQuakes, "success").Inc()
	c.logger.Debug("feed fetched", "source", SourceQuakes, "count", len(quakes))
	return quakes, nil
}

// FetchPlates downloads the plate-boundary GeoJSON.
func (c *Client) FetchPlates(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, SourcePlates, c.platesURL)
	if err != nil {
		return nil, err
	}

	plates, err := ParsePlates(body)
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(SourcePlates, string(KindParse)).Inc()
		return nil, parseError(SourcePlates, err)
	}

	c.metrics.FeedRequests.WithLabelValues(SourcePlates, "success").Inc()
	return plates, nil
}

func (c *Client) get(ctx context.Context, source, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, feedError(source, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FeedDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(source, string(KindFeed)).Inc()
		return nil, feedError(source, fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.FeedRequests.WithLabelValues(source, string(KindFeed)).Inc()
		return nil, feedError(source, fmt.Errorf("status %d: %s", resp.StatusCode, snippet))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(source, string(KindFeed)).Inc()
		return nil, feedError(source, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}
