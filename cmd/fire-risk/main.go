package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-fire-risk/internal/api"
	"github.com/mr1hm/go-fire-risk/internal/classifier"
	"github.com/mr1hm/go-fire-risk/internal/config"
	"github.com/mr1hm/go-fire-risk/internal/firms"
	"github.com/mr1hm/go-fire-risk/internal/grid"
	"github.com/mr1hm/go-fire-risk/internal/hotspot"
	"github.com/mr1hm/go-fire-risk/internal/ingestion"
	"github.com/mr1hm/go-fire-risk/internal/logging"
	"github.com/mr1hm/go-fire-risk/internal/models"
	"github.com/mr1hm/go-fire-risk/internal/observability"
	"github.com/mr1hm/go-fire-risk/internal/predictor"
	"github.com/mr1hm/go-fire-risk/internal/repository"
	"github.com/mr1hm/go-fire-risk/internal/training"
	"github.com/mr1hm/go-fire-risk/internal/weather"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	fires := firms.NewClient(cfg.FIRMS.BaseURL, cfg.FIRMS.APIKey, cfg.FIRMS.Days, models.CanadaBounds, 30*time.Second)
	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout)

	// Phase one: build the shared read-only state. The classifier and
	// hotspot index are published into the prediction service before any
	// request is served and are never mutated afterwards.
	detections, err := db.ListDetections(ctx)
	if err != nil {
		logging.Fatalf("Failed to load training corpus: %v", err)
	}

	var trainIndex *hotspot.Index
	model, loaded, err := classifier.LoadOrTrain(cfg.Model.Path, classifier.DefaultParams(), func() []models.RiskSample {
		trainIndex = hotspot.BuildIndex(models.CanadaBounds, detections)
		rng := rand.New(rand.NewSource(cfg.Model.Seed))
		return training.NewBuilder(trainIndex, rng, models.CanadaBounds).Build(detections)
	})
	if err != nil {
		logging.Fatalf("Failed to train classifier: %v", err)
	}
	if !loaded {
		metrics.ModelRetrains.Inc()
	}

	// The index is only populated on the retrain path. When a persisted
	// artifact loads it stays empty, so every historical-density feature
	// reads 0 until a retrain, unless a rebuild is forced by config.
	index := trainIndex
	if index == nil {
		if cfg.Model.ForceIndexRebuild {
			index = hotspot.BuildIndex(models.CanadaBounds, detections)
		} else {
			index = hotspot.BuildIndex(models.CanadaBounds, nil)
		}
	}
	slog.Info("hotspot index ready", "cells", index.Cells(), "corpusDetections", len(detections), "modelLoaded", loaded)

	svc := predictor.New(model, index)
	aggregator := grid.NewAggregator(svc, weatherClient, clock, cfg.Grid.PacingDelay, metrics)

	// Phase two: serve. The ingestion manager only grows the corpus for
	// future retrains; it never touches the published index.
	mgr := ingestion.NewManager(cfg, db, fires)
	mgr.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	handler := api.NewHandler(svc, aggregator, weatherClient, fires, clock, metrics, loaded)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
