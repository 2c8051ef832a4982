// Package grid sweeps a lat/lon lattice and classifies every cell.
package grid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-fire-risk/internal/features"
	"github.com/mr1hm/go-fire-risk/internal/models"
	"github.com/mr1hm/go-fire-risk/internal/observability"
	"github.com/mr1hm/go-fire-risk/internal/predictor"
	"github.com/mr1hm/go-fire-risk/internal/weather"
)

// Grid size limits enforced before any external call.
const (
	MinGridSize = 5
	MaxGridSize = 50
)

// Aggregator classifies every point of an inclusive (gridSize+1)² lattice.
// Weather fetches run sequentially with a fixed pacing delay between
// consecutive calls to stay under upstream rate limits, so worst-case
// latency is (gridSize+1)² × pacing. That cost is deliberate and bounded
// by MaxGridSize.
type Aggregator struct {
	svc     *predictor.Service
	weather weather.Source
	clock   clockwork.Clock
	pacing  time.Duration
	metrics *observability.Metrics
}

func NewAggregator(svc *predictor.Service, src weather.Source, clock clockwork.Clock, pacing time.Duration, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{svc: svc, weather: src, clock: clock, pacing: pacing, metrics: metrics}
}

// Result is one completed sweep. Points may number fewer than
// (gridSize+1)² when individual weather fetches failed.
type Result struct {
	Season    string
	DayOfYear int
	Points    []models.GridPoint
}

// Sweep walks the lattice, fetching weather and classifying per cell. A
// failed fetch drops only that cell; the sweep as a whole still succeeds.
// Only context cancellation aborts the request.
func (a *Aggregator) Sweep(ctx context.Context, bounds models.Bounds, gridSize int) (*Result, error) {
	if gridSize < MinGridSize || gridSize > MaxGridSize {
		return nil, fmt.Errorf("gridSize %d outside [%d,%d]", gridSize, MinGridSize, MaxGridSize)
	}

	doy := a.clock.Now().YearDay()
	if doy > 365 {
		doy = 365
	}

	latStep := (bounds.LatMax - bounds.LatMin) / float64(gridSize)
	lonStep := (bounds.LonMax - bounds.LonMin) / float64(gridSize)

	result := &Result{
		Season:    features.Season(doy),
		DayOfYear: doy,
		Points:    make([]models.GridPoint, 0, (gridSize+1)*(gridSize+1)),
	}

	first := true
	for i := 0; i <= gridSize; i++ {
		lat := bounds.LatMin + latStep*float64(i)
		for j := 0; j <= gridSize; j++ {
			lon := bounds.LonMin + lonStep*float64(j)

			if !first && a.pacing > 0 {
				a.clock.Sleep(a.pacing)
			}
			first = false

			if err := ctx.Err(); err != nil {
				return nil, err
			}

			w, err := a.weather.Current(ctx, lat, lon)
			if err != nil {
				a.metrics.WeatherFetches.WithLabelValues("error").Inc()
				a.metrics.GridCellsSkipped.Inc()
				slog.Warn("grid cell skipped", "lat", lat, "lon", lon, "error", err)
				continue
			}
			a.metrics.WeatherFetches.WithLabelValues("success").Inc()

			_, pred := a.svc.Assess(lat, lon, doy, w)
			result.Points = append(result.Points, models.GridPoint{
				Latitude:    lat,
				Longitude:   lon,
				Probability: pred.Probability,
				Level:       pred.Level,
			})
		}
	}

	slog.Info("grid sweep complete",
		"gridSize", gridSize,
		"points", len(result.Points),
		"skipped", (gridSize+1)*(gridSize+1)-len(result.Points),
	)
	return result, nil
}
