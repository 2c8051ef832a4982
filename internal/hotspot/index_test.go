package hotspot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

func det(lat, lon float64) models.FireDetection {
	return models.FireDetection{Latitude: lat, Longitude: lon}
}

func TestBuildIndex_NormalizesByMax(t *testing.T) {
	// three detections in one 0.5° cell, one in another
	ix := BuildIndex(models.CanadaBounds, []models.FireDetection{
		det(56.71, -111.41),
		det(56.72, -111.38),
		det(56.74, -111.27),
		det(49.1, -97.2),
	})

	require.Equal(t, 2, ix.Cells())
	assert.InDelta(t, 1.0, ix.Density(56.7, -111.3), 1e-9)
	assert.InDelta(t, 1.0/3.0, ix.Density(49.1, -97.2), 1e-9)
}

func TestDensity_UnseenCellIsZero(t *testing.T) {
	ix := BuildIndex(models.CanadaBounds, []models.FireDetection{det(56.71, -111.41)})
	assert.Zero(t, ix.Density(45.0, -75.0))
}

func TestDensity_RangeInvariant(t *testing.T) {
	ix := BuildIndex(models.CanadaBounds, []models.FireDetection{
		det(56.71, -111.41), det(56.72, -111.38),
		det(49.1, -97.2),
		det(60.0, -120.0),
	})
	for _, p := range []struct{ lat, lon float64 }{
		{56.71, -111.41}, {49.1, -97.2}, {60.0, -120.0}, {45.0, -75.0},
	} {
		v := ix.Density(p.lat, p.lon)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestBuildIndex_FiltersOutOfBounds(t *testing.T) {
	ix := BuildIndex(models.CanadaBounds, []models.FireDetection{
		det(30.0, -100.0),  // south of the box
		det(56.71, -45.0),  // east of the box
		det(56.71, -111.41),
	})
	require.Equal(t, 1, ix.Cells())
	assert.Zero(t, ix.Density(30.0, -100.0))
}

func TestBuildIndex_EmptyCorpus(t *testing.T) {
	ix := BuildIndex(models.CanadaBounds, nil)
	assert.Zero(t, ix.Cells())
	assert.Zero(t, ix.Density(56.7, -111.3))
}

func TestKeyFormula_SameCellSameKey(t *testing.T) {
	// both points sit in the lat [45.0,45.5), lon [-75.5,-75.0) cell
	a := keyFor(45.1, -75.3)
	b := keyFor(45.4, -75.2)
	assert.Equal(t, a, b)

	// crossing the 0.5° boundary changes the key
	assert.NotEqual(t, a, keyFor(45.6, -75.3))
	assert.NotEqual(t, a, keyFor(45.1, -74.9))
}
