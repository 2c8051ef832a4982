package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-fire-risk/internal/features"
	"github.com/mr1hm/go-fire-risk/internal/firms"
	"github.com/mr1hm/go-fire-risk/internal/grid"
	"github.com/mr1hm/go-fire-risk/internal/models"
	"github.com/mr1hm/go-fire-risk/internal/observability"
	"github.com/mr1hm/go-fire-risk/internal/predictor"
	"github.com/mr1hm/go-fire-risk/internal/weather"
)

type Handler struct {
	svc         *predictor.Service
	aggregator  *grid.Aggregator
	weather     weather.Source
	fires       firms.Source
	clock       clockwork.Clock
	metrics     *observability.Metrics
	bounds      models.Bounds
	modelLoaded bool
}

func NewHandler(
	svc *predictor.Service,
	aggregator *grid.Aggregator,
	weatherSrc weather.Source,
	fires firms.Source,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	modelLoaded bool,
) *Handler {
	return &Handler{
		svc:         svc,
		aggregator:  aggregator,
		weather:     weatherSrc,
		fires:       fires,
		clock:       clock,
		metrics:     metrics,
		bounds:      models.CanadaBounds,
		modelLoaded: modelLoaded,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/risk/location", h.locationRisk)
	r.GET("/risk/grid", h.gridRisk)
	r.GET("/risk/active-fires", h.activeFires)
	r.GET("/risk/test", h.testRisk)
	r.GET("/risk/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

type enhancedFeatures struct {
	DayOfYear             int     `json:"dayOfYear"`
	NDVI                  float64 `json:"ndvi"`
	DroughtIndex          float64 `json:"droughtIndex"`
	Elevation             float64 `json:"elevation"`
	HistoricalFireDensity float64 `json:"historicalFireDensity"`
	Season                string  `json:"season"`
}

func featuresOf(s models.RiskSample) enhancedFeatures {
	return enhancedFeatures{
		DayOfYear:             s.DayOfYear,
		NDVI:                  s.NDVI,
		DroughtIndex:          s.DroughtIndex,
		Elevation:             s.Elevation,
		HistoricalFireDensity: s.FireDensity,
		Season:                features.Season(s.DayOfYear),
	}
}

func (h *Handler) dayOfYear() int {
	doy := h.clock.Now().YearDay()
	if doy > 365 {
		doy = 365
	}
	return doy
}

// parseCoords validates lat/lon query params against the bounding box.
// Validation failures never reach a collaborator.
func (h *Handler) parseCoords(c *gin.Context) (float64, float64, bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required numeric parameters"})
		return 0, 0, false
	}
	if !h.bounds.Contains(lat, lon) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("coordinates outside supported region [%g,%g]x[%g,%g]",
				h.bounds.LatMin, h.bounds.LatMax, h.bounds.LonMin, h.bounds.LonMax),
		})
		return 0, 0, false
	}
	return lat, lon, true
}

func (h *Handler) locationRisk(c *gin.Context) {
	lat, lon, ok := h.parseCoords(c)
	if !ok {
		return
	}

	w, err := h.weather.Current(c.Request.Context(), lat, lon)
	if err != nil {
		h.metrics.WeatherFetches.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch weather"})
		return
	}
	h.metrics.WeatherFetches.WithLabelValues("success").Inc()

	sample, pred := h.svc.Assess(lat, lon, h.dayOfYear(), w)
	h.metrics.PredictionsServed.WithLabelValues(string(pred.Level)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"latitude":         lat,
		"longitude":        lon,
		"riskLevel":        pred.Level,
		"probability":      pred.Probability,
		"weather":          w,
		"enhancedFeatures": featuresOf(sample),
	})
}

func (h *Handler) gridRisk(c *gin.Context) {
	bounds := h.bounds
	if v := c.Query("latMin"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			bounds.LatMin = f
		}
	}
	if v := c.Query("latMax"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			bounds.LatMax = f
		}
	}
	if v := c.Query("lonMin"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			bounds.LonMin = f
		}
	}
	if v := c.Query("lonMax"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			bounds.LonMax = f
		}
	}
	if bounds.LatMin >= bounds.LatMax || bounds.LonMin >= bounds.LonMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bounding box is empty"})
		return
	}

	gridSize := 10
	if v := c.Query("gridSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gridSize must be an integer"})
			return
		}
		gridSize = n
	}
	if gridSize < grid.MinGridSize || gridSize > grid.MaxGridSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("gridSize must be within [%d,%d]", grid.MinGridSize, grid.MaxGridSize),
		})
		return
	}

	result, err := h.aggregator.Sweep(c.Request.Context(), bounds, gridSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "grid sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gridSize":   gridSize,
		"pointCount": len(result.Points),
		"season":     result.Season,
		"dayOfYear":  result.DayOfYear,
		"points":     result.Points,
	})
}

func (h *Handler) activeFires(c *gin.Context) {
	detections, err := h.fires.FetchActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch active fires"})
		return
	}

	c.JSON(http.StatusOK, detections)
}

// testRisk runs the full pipeline with caller-supplied weather, bypassing
// the weather collaborator. Useful for what-if probing of the model.
func (h *Handler) testRisk(c *gin.Context) {
	lat, lon, ok := h.parseCoords(c)
	if !ok {
		return
	}

	var w models.Weather
	var parseErr error
	numParam := func(name string) float64 {
		v, err := strconv.ParseFloat(c.Query(name), 64)
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("%s is a required numeric parameter", name)
		}
		return v
	}
	w.Temperature = numParam("temperature")
	w.WindSpeed = numParam("windSpeed")
	w.Humidity = numParam("humidity")
	w.Precipitation = numParam("precipitation")
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}

	doy := h.dayOfYear()
	if v := c.Query("dayOfYear"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dayOfYear must be within [1,365]"})
			return
		}
		doy = n
	}

	sample, pred := h.svc.Assess(lat, lon, doy, w)
	h.metrics.PredictionsServed.WithLabelValues(string(pred.Level)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"latitude":         lat,
		"longitude":        lon,
		"riskLevel":        pred.Level,
		"probability":      pred.Probability,
		"weather":          w,
		"enhancedFeatures": featuresOf(sample),
		"interpretation":   interpret(pred, sample),
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   h.clock.Now().UTC(),
		"modelLoaded": h.modelLoaded,
		"season":      features.Season(h.dayOfYear()),
	})
}

func interpret(pred models.RiskPrediction, s models.RiskSample) string {
	var conditions string
	switch {
	case s.Temperature > 25 && s.Humidity < 30:
		conditions = "hot, dry conditions"
	case s.WindSpeed > 25:
		conditions = "strong winds"
	case s.Precipitation > 5:
		conditions = "recent precipitation"
	case s.Temperature < 0:
		conditions = "cold conditions"
	default:
		conditions = "moderate conditions"
	}

	return fmt.Sprintf("%s wildfire risk (%.1f%% probability) during %s: %s, drought index %.2f, historical fire density %.2f.",
		pred.Level, pred.Probability*100, features.Season(s.DayOfYear), conditions, s.DroughtIndex, s.FireDensity)
}
