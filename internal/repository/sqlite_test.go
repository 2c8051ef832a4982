package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testDetection() *models.FireDetection {
	return &models.FireDetection{
		Latitude:   56.7267,
		Longitude:  -111.3790,
		AcqDate:    time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC),
		AcqTime:    "1832",
		Brightness: 345.2,
		BrightT31:  290.1,
		Scan:       0.39,
		Track:      0.36,
		Satellite:  "N",
		Confidence: "high",
		FRP:        12.5,
	}
}

func TestSQLiteDB_AddAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Add(ctx, testDetection()))

	detections, err := db.ListDetections(ctx)
	require.NoError(t, err)
	require.Len(t, detections, 1)

	got := detections[0]
	assert.Equal(t, 56.7267, got.Latitude)
	assert.Equal(t, "N", got.Satellite)
	assert.Equal(t, 12.5, got.FRP)
	assert.Equal(t, "1832", got.AcqTime)
}

func TestSQLiteDB_Exists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	d := testDetection()
	require.NoError(t, db.Add(ctx, d))

	exists, err := db.Exists(ctx, d.Key())
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.Exists(ctx, "N_2023-01-01_0000_0.0000_0.0000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteDB_DuplicateKeyIsIgnored(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Add(ctx, testDetection()))
	require.NoError(t, db.Add(ctx, testDetection()))

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteDB_EmptyCorpus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	detections, err := db.ListDetections(ctx)
	require.NoError(t, err)
	assert.Empty(t, detections)

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
