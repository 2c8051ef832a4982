package grid

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-fire-risk/internal/hotspot"
	"github.com/mr1hm/go-fire-risk/internal/models"
	"github.com/mr1hm/go-fire-risk/internal/observability"
	"github.com/mr1hm/go-fire-risk/internal/predictor"
)

type fixedModel struct {
	p float64
}

func (f *fixedModel) Fit([]models.RiskSample) error                { return nil }
func (f *fixedModel) PredictProbability(models.RiskSample) float64 { return f.p }
func (f *fixedModel) Save() ([]byte, error)                        { return nil, nil }
func (f *fixedModel) Load([]byte) error                            { return nil }

// fakeWeather counts calls and fails on request for specific call numbers.
type fakeWeather struct {
	calls   atomic.Int64
	failOn  map[int64]bool
	weather models.Weather
}

func (f *fakeWeather) Current(ctx context.Context, lat, lon float64) (models.Weather, error) {
	n := f.calls.Add(1)
	if f.failOn[n] {
		return models.Weather{}, errors.New("upstream unavailable")
	}
	return f.weather, nil
}

func newTestAggregator(src *fakeWeather) *Aggregator {
	svc := predictor.New(&fixedModel{p: 0.6}, hotspot.BuildIndex(models.CanadaBounds, nil))
	clock := clockwork.NewFakeClockAt(time.Date(2023, 7, 15, 12, 0, 0, 0, time.UTC))
	return NewAggregator(svc, src, clock, 0, observability.NewTestMetrics())
}

func TestSweep_FullLattice(t *testing.T) {
	src := &fakeWeather{weather: models.Weather{Temperature: 25, Humidity: 30, WindSpeed: 10}}
	agg := newTestAggregator(src)

	result, err := agg.Sweep(context.Background(), models.CanadaBounds, 10)
	require.NoError(t, err)

	assert.Len(t, result.Points, 121)
	assert.EqualValues(t, 121, src.calls.Load())
	assert.Equal(t, "Summer", result.Season)
	assert.Equal(t, time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC).YearDay(), result.DayOfYear)
}

func TestSweep_InclusiveEndpoints(t *testing.T) {
	src := &fakeWeather{}
	agg := newTestAggregator(src)

	result, err := agg.Sweep(context.Background(), models.CanadaBounds, 5)
	require.NoError(t, err)
	require.Len(t, result.Points, 36)

	first, last := result.Points[0], result.Points[len(result.Points)-1]
	assert.Equal(t, models.CanadaBounds.LatMin, first.Latitude)
	assert.Equal(t, models.CanadaBounds.LonMin, first.Longitude)
	assert.InDelta(t, models.CanadaBounds.LatMax, last.Latitude, 1e-9)
	assert.InDelta(t, models.CanadaBounds.LonMax, last.Longitude, 1e-9)
}

func TestSweep_SkipsFailedCells(t *testing.T) {
	src := &fakeWeather{failOn: map[int64]bool{1: true, 17: true, 36: true}}
	agg := newTestAggregator(src)

	result, err := agg.Sweep(context.Background(), models.CanadaBounds, 5)
	require.NoError(t, err)

	// three failed fetches drop three cells, the sweep still succeeds
	assert.Len(t, result.Points, 33)
	assert.EqualValues(t, 36, src.calls.Load())
}

func TestSweep_RejectsBadGridSize(t *testing.T) {
	agg := newTestAggregator(&fakeWeather{})

	for _, size := range []int{-1, 0, 4, 51, 1000} {
		_, err := agg.Sweep(context.Background(), models.CanadaBounds, size)
		assert.Error(t, err, "gridSize %d", size)
	}
}

func TestSweep_HonorsCancellation(t *testing.T) {
	src := &fakeWeather{}
	agg := newTestAggregator(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.Sweep(ctx, models.CanadaBounds, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, src.calls.Load())
}
