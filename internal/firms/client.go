// Package firms fetches active fire detections from the NASA FIRMS area
// CSV API.
package firms

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

// Source is the fire-detection collaborator contract.
type Source interface {
	FetchActive(ctx context.Context) ([]models.FireDetection, error)
}

// Client implements Source against the FIRMS VIIRS NRT feed.
type Client struct {
	baseURL    string
	apiKey     string
	days       int
	bounds     models.Bounds
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, days int, bounds models.Bounds, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		days:    days,
		bounds:  bounds,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchActive downloads recent detections and filters them to the bounding
// box. Without an API key it returns an empty list, not an error.
func (c *Client) FetchActive(ctx context.Context) ([]models.FireDetection, error) {
	if c.apiKey == "" {
		return []models.FireDetection{}, nil
	}

	// area API shape: /api/area/csv/{key}/{source}/{west},{south},{east},{north}/{days}
	url := fmt.Sprintf("%s/api/area/csv/%s/VIIRS_SNPP_NRT/%.0f,%.0f,%.0f,%.0f/%d",
		c.baseURL, c.apiKey, c.bounds.LonMin, c.bounds.LatMin, c.bounds.LonMax, c.bounds.LatMax, c.days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	detections, err := ParseCSV(resp.Body, c.bounds)
	if err != nil {
		return nil, fmt.Errorf("error parsing FIRMS csv: %w", err)
	}
	return detections, nil
}

// ParseCSV reads a FIRMS area CSV, keeping rows inside the bounding box.
// Columns are resolved by header name so column reordering upstream does
// not break parsing.
func ParseCSV(r io.Reader, bounds models.Bounds) ([]models.FireDetection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []models.FireDetection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"latitude", "longitude", "acq_date"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	num := func(row []string, name string) float64 {
		v, _ := strconv.ParseFloat(field(row, name), 64)
		return v
	}

	var detections []models.FireDetection
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		lat := num(row, "latitude")
		lon := num(row, "longitude")
		if !bounds.Contains(lat, lon) {
			continue
		}

		acqDate, err := time.Parse("2006-01-02", field(row, "acq_date"))
		if err != nil {
			continue // unparsable date, drop the row
		}

		detections = append(detections, models.FireDetection{
			Latitude:   lat,
			Longitude:  lon,
			AcqDate:    acqDate,
			AcqTime:    field(row, "acq_time"),
			Brightness: num(row, "bright_ti4"),
			BrightT31:  num(row, "bright_ti5"),
			Scan:       num(row, "scan"),
			Track:      num(row, "track"),
			Satellite:  field(row, "satellite"),
			Confidence: field(row, "confidence"),
			FRP:        num(row, "frp"),
		})
	}

	return detections, nil
}
