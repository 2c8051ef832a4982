package models

// Bounds is a rectangular lat/lon region. Coordinates outside it are
// rejected before any collaborator call is made.
type Bounds struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// CanadaBounds is the service-wide valid region for detections, training
// samples and prediction requests.
var CanadaBounds = Bounds{LatMin: 41, LatMax: 83, LonMin: -141, LonMax: -52}

func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// Weather is a current-conditions observation for a point. Field names
// mirror the Open-Meteo current-weather variables.
type Weather struct {
	Temperature   float64 `json:"temperature_2m"`       // °C
	Humidity      float64 `json:"relative_humidity_2m"` // %
	WindSpeed     float64 `json:"wind_speed_10m"`       // km/h
	Precipitation float64 `json:"precipitation"`        // mm
}

// RiskSample is one feature-complete observation fed to the classifier.
// All derived features are clamped at synthesis time; values never leave
// their documented ranges.
type RiskSample struct {
	Latitude      float64
	Longitude     float64
	Temperature   float64
	WindSpeed     float64
	Humidity      float64
	Precipitation float64
	DayOfYear     int     // [1,365]
	NDVI          float64 // [0.1,0.9]
	DroughtIndex  float64 // [0,1]
	Elevation     float64 // meters, one of the fixed regional bands
	FireDensity   float64 // normalized historical hotspot density [0,1]
	Label         bool    // training only
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskPrediction is the classifier output for one point.
type RiskPrediction struct {
	Probability float64   `json:"probability"`
	Level       RiskLevel `json:"riskLevel"`
}

// GridPoint is one classified cell of a grid sweep.
type GridPoint struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Probability float64   `json:"probability"`
	Level       RiskLevel `json:"riskLevel"`
}
