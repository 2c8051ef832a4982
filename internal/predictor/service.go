// Package predictor serves single-point risk inference over the shared
// classifier and hotspot index.
package predictor

import (
	"github.com/mr1hm/go-fire-risk/internal/classifier"
	"github.com/mr1hm/go-fire-risk/internal/features"
	"github.com/mr1hm/go-fire-risk/internal/hotspot"
	"github.com/mr1hm/go-fire-risk/internal/models"
)

// tiers is the ordered threshold table. Probabilities strictly above a
// tier's floor land in that tier, so the boundary values 0.70 and 0.40
// themselves fall into the next tier down.
var tiers = []struct {
	floor float64
	level models.RiskLevel
}{
	{0.7, models.RiskHigh},
	{0.4, models.RiskMedium},
}

// Tier maps a probability onto its categorical risk level.
func Tier(probability float64) models.RiskLevel {
	for _, t := range tiers {
		if probability > t.floor {
			return t.level
		}
	}
	return models.RiskLow
}

// Service holds the immutable model and hotspot index built at startup.
// Safe for concurrent use without locking.
type Service struct {
	model classifier.Model
	index *hotspot.Index
}

func New(model classifier.Model, index *hotspot.Index) *Service {
	return &Service{model: model, index: index}
}

// Assess completes the feature vector for a point and classifies it.
func (s *Service) Assess(lat, lon float64, dayOfYear int, w models.Weather) (models.RiskSample, models.RiskPrediction) {
	sample := models.RiskSample{
		Latitude:      lat,
		Longitude:     lon,
		Temperature:   w.Temperature,
		WindSpeed:     w.WindSpeed,
		Humidity:      w.Humidity,
		Precipitation: w.Precipitation,
		DayOfYear:     dayOfYear,
		NDVI:          features.NDVI(lat, lon, dayOfYear),
		DroughtIndex:  features.DroughtIndex(dayOfYear, w.Precipitation, w.Temperature),
		Elevation:     features.Elevation(lat, lon),
		FireDensity:   s.index.Density(lat, lon),
	}
	return sample, s.Predict(sample)
}

// Predict classifies an already-complete sample.
func (s *Service) Predict(sample models.RiskSample) models.RiskPrediction {
	p := s.model.PredictProbability(sample)
	return models.RiskPrediction{Probability: p, Level: Tier(p)}
}
