package usgs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-trends/internal/domain"
	"github.com/couchcryptid/quake-trends/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeGeoJSON = "application/geo+json"
	headerContentType  = "Content-Type"
)

// sampleBody is trimmed from a real ComCat response for the default query.
const sampleBody = `{
  "type": "FeatureCollection",
  "metadata": {"generated": 1539250000000, "status": 200, "count": 3},
  "features": [
    {
      "type": "Feature",
      "id": "us70000abc",
      "properties": {"mag": 3.0, "place": "2km NW of Folkestone, United Kingdom", "time": 980000000000, "magType": "ml"},
      "geometry": {"type": "Point", "coordinates": [1.15, 51.09, 5.0]}
    },
    {
      "type": "Feature",
      "id": "us70000abd",
      "properties": {"mag": null, "place": "Irish Sea", "time": 1000000000000, "magType": null},
      "geometry": {"type": "Point", "coordinates": [-5.2, 53.6]}
    },
    {
      "type": "Feature",
      "id": "us70000abe",
      "properties": {"mag": 4.1, "place": "North Sea", "time": 1200000000000, "magType": "mb"},
      "geometry": null
    }
  ]
}`

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		w.Header().Set(headerContentType, contentTypeGeoJSON)
		_, _ = io.WriteString(w, sampleBody)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	quakes, err := c.Fetch(context.Background(), domain.DefaultQuery())
	require.NoError(t, err)
	require.Len(t, quakes, 3)

	first := quakes[0]
	assert.Equal(t, "us70000abc", first.ID)
	assert.Equal(t, int64(980000000000), first.Time)
	require.NotNil(t, first.Magnitude)
	assert.Equal(t, 3.0, *first.Magnitude)
	assert.Equal(t, "ml", first.MagType)
	assert.Equal(t, 1.15, first.Lon)
	assert.Equal(t, 51.09, first.Lat)
	assert.Equal(t, 5.0, first.Depth)
	assert.Equal(t, 2001, first.Year())

	assert.Nil(t, quakes[1].Magnitude, "null mag should decode as nil")
	assert.Equal(t, -5.2, quakes[1].Lon)
	assert.Equal(t, 0.0, quakes[1].Depth)

	assert.Equal(t, 0.0, quakes[2].Lat, "null geometry leaves coordinates at zero")
	require.NotNil(t, quakes[2].Magnitude)
	assert.Equal(t, 4.1, *quakes[2].Magnitude)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.metrics.QuakesFetched))
}

func TestClient_Fetch_QueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "geojson", q.Get("format"))
		assert.Equal(t, "2000-01-01", q.Get("starttime"))
		assert.Equal(t, "2018-10-11", q.Get("endtime"))
		assert.Equal(t, "50.008", q.Get("minlatitude"))
		assert.Equal(t, "58.723", q.Get("maxlatitude"))
		assert.Equal(t, "-9.756", q.Get("minlongitude"))
		assert.Equal(t, "1.67", q.Get("maxlongitude"))
		assert.Equal(t, "1", q.Get("minmagnitude"))
		assert.Equal(t, "time-asc", q.Get("orderby"))
		assert.Len(t, q, 9)

		w.Header().Set(headerContentType, contentTypeGeoJSON)
		_, _ = io.WriteString(w, `{"type":"FeatureCollection","features":[]}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	quakes, err := c.Fetch(context.Background(), domain.DefaultQuery())
	require.NoError(t, err)
	assert.Empty(t, quakes)
}

func TestClient_Fetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Error 400: Bad Request\n\nBad maxlatitude value")
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Fetch(context.Background(), domain.DefaultQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Bad maxlatitude value")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues("error")))
}

func TestClient_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeGeoJSON)
		_, _ = io.WriteString(w, `{"features": [{"properties": {"time": "yesterday"}}]}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Fetch(context.Background(), domain.DefaultQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := c.Fetch(context.Background(), domain.DefaultQuery())
	require.Error(t, err)
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Fetch(ctx, domain.DefaultQuery())
	require.ErrorIs(t, err, context.Canceled)
}

func TestQueryParams_FormatsFloatsWithoutTrailingZeros(t *testing.T) {
	q := domain.DefaultQuery()
	q.MinMagnitude = 2.5

	params := queryParams(q)
	assert.Equal(t, "2.5", params.Get("minmagnitude"))
	assert.Equal(t, "1.67", params.Get("maxlongitude"))
}
