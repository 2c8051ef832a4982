package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

const artifactSchemaVersion = 1

// artifact is the on-disk JSON form of a trained model. It is fully
// self-contained: normalization vectors travel with the trees.
type artifact struct {
	SchemaVersion int       `json:"schema_version"`
	Params        Params    `json:"params"`
	Base          float64   `json:"base_score"`
	FeatureMin    []float64 `json:"feature_min"`
	FeatureMax    []float64 `json:"feature_max"`
	Trees         []tree    `json:"trees"`
}

// Save serializes the trained model.
func (m *GradientBoosted) Save() ([]byte, error) {
	if len(m.trees) == 0 {
		return nil, errors.New("model is not trained")
	}
	return json.Marshal(artifact{
		SchemaVersion: artifactSchemaVersion,
		Params:        m.params,
		Base:          m.base,
		FeatureMin:    m.featMin,
		FeatureMax:    m.featMax,
		Trees:         m.trees,
	})
}

// Load restores a model from a Save artifact, rejecting unknown schema
// versions and structurally broken trees.
func (m *GradientBoosted) Load(data []byte) error {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	if a.SchemaVersion != artifactSchemaVersion {
		return fmt.Errorf("artifact schema version %d, want %d", a.SchemaVersion, artifactSchemaVersion)
	}

	m.params = a.Params
	m.base = a.Base
	m.featMin = a.FeatureMin
	m.featMax = a.FeatureMax
	m.trees = a.Trees

	if err := m.validate(); err != nil {
		return fmt.Errorf("artifact validation: %w", err)
	}
	return nil
}

// LoadOrTrain loads the artifact at path, or on any load failure (missing
// file, corrupt bytes, schema mismatch) trains a fresh model on the
// samples produced by buildSamples and re-persists it. Load failures never
// abort startup; only a training failure is returned. The second return
// reports whether a persisted artifact was used.
func LoadOrTrain(path string, params Params, buildSamples func() []models.RiskSample) (*GradientBoosted, bool, error) {
	m := NewGradientBoosted(params)

	switch data, err := os.ReadFile(path); {
	case err != nil:
		slog.Warn("classifier artifact unreadable, retraining", "path", path, "error", err)
	default:
		if loadErr := m.Load(data); loadErr != nil {
			slog.Warn("classifier artifact unusable, retraining", "path", path, "error", loadErr)
			break
		}
		slog.Info("classifier artifact loaded", "path", path, "trees", len(m.trees))
		return m, true, nil
	}

	if err := m.Fit(buildSamples()); err != nil {
		return nil, false, fmt.Errorf("train classifier: %w", err)
	}

	if data, err := m.Save(); err != nil {
		slog.Error("serialize classifier artifact", "error", err)
	} else if err := writeArtifact(path, data); err != nil {
		slog.Error("persist classifier artifact", "path", path, "error", err)
	} else {
		slog.Info("classifier artifact persisted", "path", path)
	}

	return m, false, nil
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
