// Package classifier trains, persists and serves the probabilistic
// wildfire risk model.
package classifier

import "github.com/mr1hm/go-fire-risk/internal/models"

// Model is the portable classifier contract. Any calibrated-probability
// binary classifier can satisfy it; tree internals are an implementation
// detail of the artifact, not of this interface.
type Model interface {
	// Fit trains on labeled samples. The last 20% of the slice is held
	// out for diagnostics; pass a pre-shuffled set.
	Fit(samples []models.RiskSample) error

	// PredictProbability returns the fire probability in [0,1] for one
	// feature-complete sample.
	PredictProbability(s models.RiskSample) float64

	// Save serializes the trained model, including its normalization
	// parameters, to a self-contained artifact.
	Save() ([]byte, error)

	// Load restores a model from a Save artifact.
	Load(data []byte) error
}

// numFeatures is the width of the numeric vector fed to the model. The
// artifact records it implicitly through the normalization vectors.
const numFeatures = 11

func vectorize(s models.RiskSample) []float64 {
	return []float64{
		s.Latitude,
		s.Longitude,
		s.Temperature,
		s.WindSpeed,
		s.Humidity,
		s.Precipitation,
		float64(s.DayOfYear),
		s.NDVI,
		s.DroughtIndex,
		s.Elevation,
		s.FireDensity,
	}
}
