// Package features derives vegetation, drought, elevation and season
// signals from coordinates, calendar day and weather. Every function is
// pure and deterministic: identical inputs always produce identical
// outputs, bit for bit.
package features

import "math"

// Season names returned by Season and echoed on API responses.
const (
	SeasonWinter = "Winter"
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NDVI estimates vegetation density from a seasonal sine cycle, a latitude
// falloff and a coastal bonus. Result is clamped to [0.1, 0.9].
func NDVI(lat, lon float64, dayOfYear int) float64 {
	seasonal := 0.6 + 0.2*math.Sin(float64(dayOfYear-100)*math.Pi/180)
	latitudeFactor := 1 - (lat-41)/50*0.3
	coastal := 1.0
	if lon < -120 || lon > -70 {
		coastal = 1.1
	}
	return clamp(seasonal*latitudeFactor*coastal, 0.1, 0.9)
}

// DroughtIndex blends a fire-season flag with banded precipitation and
// temperature effects, averaged and clamped to [0, 1].
func DroughtIndex(dayOfYear int, precip, temp float64) float64 {
	seasonal := 0.3
	if dayOfYear > 120 && dayOfYear < 270 {
		seasonal = 0.7
	}

	precipEffect := 0.2
	switch {
	case precip < 2:
		precipEffect = 0.8
	case precip < 5:
		precipEffect = 0.5
	}

	tempEffect := 0.2
	switch {
	case temp > 25:
		tempEffect = 0.8
	case temp > 15:
		tempEffect = 0.5
	}

	return clamp((seasonal+precipEffect+tempEffect)/3, 0, 1)
}

// elevationRegion is a bounding box mapped to a representative elevation
// band. Regions are evaluated in declaration order; the first match wins.
type elevationRegion struct {
	latMin, latMax float64
	lonMin, lonMax float64
	meters         float64
}

var elevationRegions = []elevationRegion{
	{49, 60, -120, -110, 1500}, // Rocky Mountains
	{49, 60, -110, -95, 600},   // Prairies
	{45, 65, -95, -75, 300},    // Canadian Shield
	{48, 60, -141, -120, 800},  // BC coastal and interior ranges
}

// Elevation returns the representative elevation in meters for the region
// containing the point, or the 200m lowland default.
func Elevation(lat, lon float64) float64 {
	for _, r := range elevationRegions {
		if lat >= r.latMin && lat <= r.latMax && lon >= r.lonMin && lon <= r.lonMax {
			return r.meters
		}
	}
	return 200
}

// Season maps a day of year onto the four meteorological seasons.
func Season(dayOfYear int) string {
	switch {
	case dayOfYear >= 80 && dayOfYear < 172:
		return SeasonSpring
	case dayOfYear >= 172 && dayOfYear < 266:
		return SeasonSummer
	case dayOfYear >= 266 && dayOfYear < 355:
		return SeasonFall
	default:
		return SeasonWinter
	}
}
