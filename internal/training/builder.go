// Package training assembles labeled risk samples from raw fire detections.
package training

import (
	"log/slog"
	"math/rand"

	"github.com/mr1hm/go-fire-risk/internal/features"
	"github.com/mr1hm/go-fire-risk/internal/hotspot"
	"github.com/mr1hm/go-fire-risk/internal/models"
)

// Builder turns fire detections into a shuffled, labeled training set.
// Randomness comes exclusively from the injected generator, so a fixed
// seed reproduces the exact sample sequence and train/test split.
type Builder struct {
	index  *hotspot.Index
	rng    *rand.Rand
	bounds models.Bounds
}

func NewBuilder(index *hotspot.Index, rng *rand.Rand, bounds models.Bounds) *Builder {
	return &Builder{index: index, rng: rng, bounds: bounds}
}

// Build produces one positive sample per in-bounds detection plus an equal
// number of synthetic negatives, shuffled. When no detection is usable it
// falls back to a fixed 4-sample set so training never fails for lack of
// data.
func (b *Builder) Build(detections []models.FireDetection) []models.RiskSample {
	var samples []models.RiskSample
	for _, d := range detections {
		if !b.bounds.Contains(d.Latitude, d.Longitude) {
			continue
		}
		samples = append(samples, b.positive(d))
	}
	positives := len(samples)

	if positives == 0 {
		slog.Warn("no usable detections in corpus, using fallback training set")
		return fallbackSamples()
	}

	for i := 0; i < positives; i++ {
		samples = append(samples, b.negative())
	}

	b.rng.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})

	slog.Info("training set built", "positives", positives, "negatives", positives)
	return samples
}

// uniform draws from [lo, hi).
func (b *Builder) uniform(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// positive synthesizes fire-season weather around the detection's calendar
// day and completes the feature vector at the detection's coordinates.
func (b *Builder) positive(d models.FireDetection) models.RiskSample {
	doy := d.DayOfYear()

	baseTemp := 15 + float64(doy-180)/15
	temp := clamp(baseTemp+b.uniform(-10, 20), -20, 45)
	wind := clamp(5+b.uniform(0, 25), 0, 50)
	humidity := clamp(60-(temp-15)*2+b.uniform(-20, 10), 10, 95)

	var precip float64
	if doy > 150 && doy < 250 {
		precip = b.uniform(0, 3)
	} else {
		precip = b.uniform(0, 10)
	}

	return models.RiskSample{
		Latitude:      d.Latitude,
		Longitude:     d.Longitude,
		Temperature:   temp,
		WindSpeed:     wind,
		Humidity:      humidity,
		Precipitation: precip,
		DayOfYear:     doy,
		NDVI:          features.NDVI(d.Latitude, d.Longitude, doy),
		DroughtIndex:  features.DroughtIndex(doy, precip, temp),
		Elevation:     features.Elevation(d.Latitude, d.Longitude),
		FireDensity:   b.index.Density(d.Latitude, d.Longitude),
		Label:         true,
	}
}

// negative draws a random in-bounds point with cooler, wetter weather.
// Hotspot density is halved so historical fire presence alone does not
// dominate the negative class.
func (b *Builder) negative() models.RiskSample {
	lat := b.uniform(b.bounds.LatMin, b.bounds.LatMax)
	lon := b.uniform(b.bounds.LonMin, b.bounds.LonMax)
	doy := 1 + b.rng.Intn(365)

	baseTemp := 5 + float64(doy-180)/20
	temp := clamp(baseTemp+b.uniform(-15, 10), -30, 35)
	wind := b.uniform(0, 20)
	humidity := clamp(60+b.uniform(0, 30), 40, 100)
	precip := b.uniform(0, 15)

	return models.RiskSample{
		Latitude:      lat,
		Longitude:     lon,
		Temperature:   temp,
		WindSpeed:     wind,
		Humidity:      humidity,
		Precipitation: precip,
		DayOfYear:     doy,
		NDVI:          features.NDVI(lat, lon, doy),
		DroughtIndex:  features.DroughtIndex(doy, precip, temp),
		Elevation:     features.Elevation(lat, lon),
		FireDensity:   b.index.Density(lat, lon) * 0.5,
		Label:         false,
	}
}

// fallbackSamples is the minimal training set used when the corpus is
// empty: two hot, dry summer positives and two cold, wet winter negatives.
func fallbackSamples() []models.RiskSample {
	mk := func(lat, lon, temp, wind, humidity, precip float64, doy int, label bool) models.RiskSample {
		density := 0.8
		if !label {
			density = 0.1
		}
		return models.RiskSample{
			Latitude:      lat,
			Longitude:     lon,
			Temperature:   temp,
			WindSpeed:     wind,
			Humidity:      humidity,
			Precipitation: precip,
			DayOfYear:     doy,
			NDVI:          features.NDVI(lat, lon, doy),
			DroughtIndex:  features.DroughtIndex(doy, precip, temp),
			Elevation:     features.Elevation(lat, lon),
			FireDensity:   density,
			Label:         label,
		}
	}
	return []models.RiskSample{
		mk(56.7, -111.4, 34, 28, 18, 0, 200, true),  // Fort McMurray midsummer
		mk(53.9, -122.7, 31, 22, 25, 0.5, 210, true),
		mk(45.4, -75.7, -18, 8, 75, 6, 20, false),
		mk(49.9, -97.1, -25, 12, 80, 8, 35, false),
	}
}
