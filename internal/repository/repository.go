package repository

import (
	"context"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

// DetectionRepository is the training-corpus store: every satellite fire
// detection the service has ingested, keyed for deduplication.
type DetectionRepository interface {
	Add(ctx context.Context, d *models.FireDetection) error
	Exists(ctx context.Context, key string) (bool, error)
	ListDetections(ctx context.Context) ([]models.FireDetection, error)
	Count(ctx context.Context) (int, error)
}
