package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS detections (
			key TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			acq_date DATETIME NOT NULL,
			acq_time TEXT,
			brightness REAL,
			bright_t31 REAL,
			scan REAL,
			track REAL,
			satellite TEXT,
			confidence TEXT,
			frp REAL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_detections_acq_date ON detections(acq_date);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, d *models.FireDetection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO detections
			(key, latitude, longitude, acq_date, acq_time, brightness, bright_t31, scan, track, satellite, confidence, frp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Key(), d.Latitude, d.Longitude, d.AcqDate, d.AcqTime,
		d.Brightness, d.BrightT31, d.Scan, d.Track, d.Satellite, d.Confidence, d.FRP,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error inserting detection: %w", err)
	}
	return nil
}

func (s *SQLiteDB) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM detections WHERE key = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("error checking detection existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteDB) ListDetections(ctx context.Context) ([]models.FireDetection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT latitude, longitude, acq_date, acq_time, brightness, bright_t31, scan, track, satellite, confidence, frp
		FROM detections
		ORDER BY acq_date, key`)
	if err != nil {
		return nil, fmt.Errorf("error listing detections: %w", err)
	}
	defer rows.Close()

	var detections []models.FireDetection
	for rows.Next() {
		var d models.FireDetection
		if err := rows.Scan(
			&d.Latitude, &d.Longitude, &d.AcqDate, &d.AcqTime,
			&d.Brightness, &d.BrightT31, &d.Scan, &d.Track,
			&d.Satellite, &d.Confidence, &d.FRP,
		); err != nil {
			return nil, fmt.Errorf("error scanning detection: %w", err)
		}
		detections = append(detections, d)
	}
	return detections, rows.Err()
}

func (s *SQLiteDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM detections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting detections: %w", err)
	}
	return n, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
