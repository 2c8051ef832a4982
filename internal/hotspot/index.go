// Package hotspot maintains a spatial density index of historical fire
// detections at a fixed 0.5 degree resolution.
package hotspot

import (
	"math"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

// cellKey addresses one 0.5 degree grid cell. The same floor(coord*2)
// formula is used at build and lookup time; changing one side silently
// desynchronizes density values.
type cellKey struct {
	latIdx int
	lonIdx int
}

func keyFor(lat, lon float64) cellKey {
	return cellKey{
		latIdx: int(math.Floor(lat * 2)),
		lonIdx: int(math.Floor(lon * 2)),
	}
}

// Index is a frozen density grid. Built once during startup and shared
// read-only across requests; there is no exported mutation.
type Index struct {
	density map[cellKey]float64
	cells   int
}

// BuildIndex counts detections per 0.5 degree cell, dropping anything
// outside the bounding box, then normalizes counts by the observed maximum
// so the densest cell reads exactly 1.0. An empty detection slice yields a
// valid index where every lookup is 0.
func BuildIndex(bounds models.Bounds, detections []models.FireDetection) *Index {
	counts := make(map[cellKey]int)
	max := 0
	for _, d := range detections {
		if !bounds.Contains(d.Latitude, d.Longitude) {
			continue
		}
		k := keyFor(d.Latitude, d.Longitude)
		counts[k]++
		if counts[k] > max {
			max = counts[k]
		}
	}

	density := make(map[cellKey]float64, len(counts))
	for k, c := range counts {
		density[k] = float64(c) / float64(max)
	}

	return &Index{density: density, cells: len(density)}
}

// Density returns the normalized detection density of the cell containing
// the point, or 0 for a cell never observed.
func (ix *Index) Density(lat, lon float64) float64 {
	return ix.density[keyFor(lat, lon)]
}

// Cells reports how many distinct cells hold at least one detection.
func (ix *Index) Cells() int {
	return ix.cells
}
