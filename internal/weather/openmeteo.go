// Package weather fetches current conditions from the Open-Meteo API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

// Source is the current-weather collaborator contract.
type Source interface {
	Current(ctx context.Context, lat, lon float64) (models.Weather, error)
}

// Client implements Source against the Open-Meteo forecast endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type currentResponse struct {
	Current models.Weather `json:"current"`
}

// Current fetches temperature, humidity, wind speed and precipitation for
// a point. Network and parse failures are returned to the caller; the
// grid aggregator decides whether they are fatal.
func (c *Client) Current(ctx context.Context, lat, lon float64) (models.Weather, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', 4, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', 4, 64)},
		"current":   {"temperature_2m,relative_humidity_2m,wind_speed_10m,precipitation"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return models.Weather{}, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Weather{}, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Weather{}, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.Weather{}, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	return data.Current, nil
}
