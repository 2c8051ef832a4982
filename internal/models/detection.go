package models

import (
	"fmt"
	"time"
)

// FireDetection is a single satellite fire pixel as reported by FIRMS.
// Immutable once parsed.
type FireDetection struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	AcqDate    time.Time `json:"acq_date"`
	AcqTime    string    `json:"acq_time"`   // HHMM UTC as reported
	Brightness float64   `json:"brightness"` // brightness temperature, channel I-4 (K)
	BrightT31  float64   `json:"bright_t31"` // brightness temperature, channel I-5 (K)
	Scan       float64   `json:"scan"`       // along-scan pixel size (km)
	Track      float64   `json:"track"`      // along-track pixel size (km)
	Satellite  string    `json:"satellite"`
	Confidence string    `json:"confidence"` // low / nominal / high
	FRP        float64   `json:"frp"`        // fire radiative power (MW)
}

// Key identifies a detection for deduplication. Coordinates are rounded to
// four decimals so re-downloads of the same pixel collapse to one row.
func (d *FireDetection) Key() string {
	return fmt.Sprintf("%s_%s_%s_%.4f_%.4f",
		d.Satellite, d.AcqDate.Format("2006-01-02"), d.AcqTime, d.Latitude, d.Longitude)
}

// DayOfYear returns the acquisition day of year, capped at 365 so leap-day
// detections share the final bucket.
func (d *FireDetection) DayOfYear() int {
	doy := d.AcqDate.YearDay()
	if doy > 365 {
		doy = 365
	}
	return doy
}
