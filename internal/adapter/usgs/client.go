package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-trends/internal/domain"
	"github.com/couchcryptid/quake-trends/internal/observability"
)

// maxErrorBody caps how much of a failed response is copied into the error.
const maxErrorBody = 512

// Client fetches earthquake events from the USGS FDSN event web service.
// It implements pipeline.Fetcher.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an FDSN event client rooted at baseURL, e.g.
// https://earthquake.usgs.gov/fdsnws/event/1.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch runs a single event query and returns every event in the response.
func (c *Client) Fetch(ctx context.Context, q domain.Query) ([]domain.Quake, error) {
	start := time.Now()
	quakes, err := c.doRequest(ctx, c.baseURL+"/query?"+queryParams(q).Encode())
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	c.metrics.QuakesFetched.Add(float64(len(quakes)))
	c.logger.Info("fetched quakes",
		"count", len(quakes),
		"start", q.Start.Format(time.DateOnly),
		"end", q.End.Format(time.DateOnly),
		"duration", time.Since(start),
	)
	return quakes, nil
}

// queryParams encodes a Query the way the FDSN event service expects it.
func queryParams(q domain.Query) url.Values {
	return url.Values{
		"format":       {"geojson"},
		"starttime":    {q.Start.Format(time.DateOnly)},
		"endtime":      {q.End.Format(time.DateOnly)},
		"minlatitude":  {formatFloat(q.MinLatitude)},
		"maxlatitude":  {formatFloat(q.MaxLatitude)},
		"minlongitude": {formatFloat(q.MinLongitude)},
		"maxlongitude": {formatFloat(q.MaxLongitude)},
		"minmagnitude": {formatFloat(q.MinMagnitude)},
		"orderby":      {q.OrderBy},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.Quake, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	c.logger.Debug("usgs request", "url", fullURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usgs event query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("usgs API error: status %d: %s", resp.StatusCode, body)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	quakes := make([]domain.Quake, 0, len(fc.Features))
	for _, f := range fc.Features {
		quakes = append(quakes, f.toQuake())
	}
	return quakes, nil
}

// FDSN GeoJSON response types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   *geometry  `json:"geometry"`
}

type properties struct {
	Time    int64    `json:"time"` // ms since epoch
	Mag     *float64 `json:"mag"`  // null when not yet assigned
	MagType string   `json:"magType"`
	Place   string   `json:"place"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

func (f feature) toQuake() domain.Quake {
	q := domain.Quake{
		ID:        f.ID,
		Time:      f.Properties.Time,
		Magnitude: f.Properties.Mag,
		MagType:   f.Properties.MagType,
		Place:     f.Properties.Place,
	}
	if f.Geometry != nil {
		coords := f.Geometry.Coordinates
		if len(coords) >= 2 {
			q.Lon = coords[0]
			q.Lat = coords[1]
		}
		if len(coords) >= 3 {
			q.Depth = coords[2]
		}
	}
	return q
}
