package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNDVI_KnownValues(t *testing.T) {
	// day 100 zeroes the seasonal sine, lat 41 zeroes the latitude falloff.
	assert.InDelta(t, 0.6, NDVI(41, -100, 100), 1e-9)

	// coastal longitudes get a 1.1 multiplier
	assert.InDelta(t, 0.66, NDVI(41, -121, 100), 1e-9)
	assert.InDelta(t, 0.66, NDVI(41, -69, 100), 1e-9)

	// day 190 puts the sine at its +1 peak
	assert.InDelta(t, 0.8, NDVI(41, -100, 190), 1e-9)
}

func TestNDVI_Bounds(t *testing.T) {
	for _, doy := range []int{1, 100, 200, 300, 365} {
		for _, lat := range []float64{41, 55, 70, 83} {
			for _, lon := range []float64{-141, -120, -100, -70, -52} {
				v := NDVI(lat, lon, doy)
				assert.GreaterOrEqual(t, v, 0.1)
				assert.LessOrEqual(t, v, 0.9)
			}
		}
	}
}

func TestDroughtIndex_KnownValues(t *testing.T) {
	// fire season, no rain, hot
	assert.InDelta(t, (0.7+0.8+0.8)/3, DroughtIndex(200, 1, 30), 1e-9)

	// winter, heavy rain, cold
	assert.InDelta(t, (0.3+0.2+0.2)/3, DroughtIndex(50, 10, 5), 1e-9)

	// band boundaries: precip=2 falls into the middle band, temp=15 into
	// the cold band, day 120 is still off-season
	assert.InDelta(t, (0.3+0.5+0.2)/3, DroughtIndex(120, 2, 15), 1e-9)
}

func TestDroughtIndex_Bounds(t *testing.T) {
	for _, doy := range []int{1, 121, 200, 269, 270, 365} {
		for _, precip := range []float64{0, 1.9, 2, 4.9, 5, 20} {
			for _, temp := range []float64{-30, 15, 15.1, 25, 25.1, 45} {
				v := DroughtIndex(doy, precip, temp)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestElevation_Regions(t *testing.T) {
	assert.Equal(t, 1500.0, Elevation(50, -115))      // Rockies
	assert.Equal(t, 1500.0, Elevation(56.73, -111.38)) // Fort McMurray area, Rockies box
	assert.Equal(t, 600.0, Elevation(50, -100))       // Prairies
	assert.Equal(t, 300.0, Elevation(50, -80))        // Shield
	assert.Equal(t, 800.0, Elevation(50, -130))       // BC ranges
	assert.Equal(t, 200.0, Elevation(43, -79))        // lowland default
}

func TestSeason_Boundaries(t *testing.T) {
	cases := map[int]string{
		1:   SeasonWinter,
		79:  SeasonWinter,
		80:  SeasonSpring,
		171: SeasonSpring,
		172: SeasonSummer,
		265: SeasonSummer,
		266: SeasonFall,
		354: SeasonFall,
		355: SeasonWinter,
		365: SeasonWinter,
	}
	for doy, want := range cases {
		assert.Equal(t, want, Season(doy), "day %d", doy)
	}
}

func TestSynthesis_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, NDVI(56.7267, -111.379, 200), NDVI(56.7267, -111.379, 200))
		assert.Equal(t, DroughtIndex(200, 0.5, 32), DroughtIndex(200, 0.5, 32))
		assert.Equal(t, Elevation(56.7267, -111.379), Elevation(56.7267, -111.379))
		assert.Equal(t, Season(200), Season(200))
	}
}
