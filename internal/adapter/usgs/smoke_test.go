//go:build usgs

package usgs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/quake-trends/internal/config"
	"github.com/couchcryptid/quake-trends/internal/domain"
	"github.com/couchcryptid/quake-trends/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the live USGS event service.
// Run with: go test -tags=usgs ./internal/adapter/usgs/ -v -count=1

func smokeClient() *Client {
	return NewClient(
		config.DefaultUSGSBaseURL,
		60*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestSmoke_FetchDefaultQuery(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	quakes, err := smokeClient().Fetch(ctx, domain.DefaultQuery())
	require.NoError(t, err)
	require.NotEmpty(t, quakes)

	for _, q := range quakes {
		year := q.Year()
		assert.GreaterOrEqual(t, year, 2000)
		assert.LessOrEqual(t, year, 2018)
	}

	counts := domain.CountByYear(quakes)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, len(quakes), total)
}

func TestSmoke_FetchOrderedByTime(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	q := domain.DefaultQuery()
	q.End = time.Date(2002, time.January, 1, 0, 0, 0, 0, time.UTC)

	quakes, err := smokeClient().Fetch(ctx, q)
	require.NoError(t, err)

	for i := 1; i < len(quakes); i++ {
		assert.LessOrEqual(t, quakes[i-1].Time, quakes[i].Time, "time-asc ordering broken at %d", i)
	}
}
