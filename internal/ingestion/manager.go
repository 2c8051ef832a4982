// Package ingestion keeps the training corpus current by polling the
// fire-detection collaborator.
package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/go-fire-risk/internal/config"
	"github.com/mr1hm/go-fire-risk/internal/firms"
	"github.com/mr1hm/go-fire-risk/internal/models"
	"github.com/mr1hm/go-fire-risk/internal/repository"
	"github.com/mr1hm/go-fire-risk/internal/worker"
)

// Manager polls FIRMS on an interval and drains new detections into the
// corpus through a bounded worker pool, deduplicating on detection key.
type Manager struct {
	cfg    *config.Config
	repo   repository.DetectionRepository
	source firms.Source
	pool   *worker.Pool
	wg     sync.WaitGroup
}

func NewManager(cfg *config.Config, repo repository.DetectionRepository, source firms.Source) *Manager {
	return &Manager{
		cfg:    cfg,
		repo:   repo,
		source: source,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.pool = worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, m.store)
	m.pool.Start(ctx)

	if m.cfg.FIRMS.Enabled {
		m.wg.Add(1)
		go m.runPoller(ctx, m.cfg.FIRMS.PollInterval)
	}
}

func (m *Manager) store(ctx context.Context, d *models.FireDetection) error {
	exists, err := m.repo.Exists(ctx, d.Key())
	if err != nil {
		slog.Error("error checking existence", "key", d.Key(), "error", err)
		return err
	}
	if exists {
		return nil
	}

	if err := m.repo.Add(ctx, d); err != nil {
		slog.Error("error adding detection", "key", d.Key(), "error", err)
		return err
	}

	slog.Info("added detection", "key", d.Key(), "satellite", d.Satellite, "frp", d.FRP)
	return nil
}

func (m *Manager) runPoller(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting poller", "source", "firms", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial poll
	m.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller shutting down", "source", "firms")
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Manager) poll(ctx context.Context) {
	slog.Debug("polling", "source", "firms")

	detections, err := m.source.FetchActive(ctx)
	if err != nil {
		slog.Error("poll failed", "source", "firms", "error", err)
		return
	}

	for i := range detections {
		m.pool.Submit(&detections[i])
	}

	slog.Debug("poll complete", "source", "firms", "count", len(detections))
}

func (m *Manager) Stop() {
	m.wg.Wait()
	m.pool.Stop()
	slog.Info("ingestion manager stopped")
}
