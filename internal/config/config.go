package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Worker  WorkerConfig
	FIRMS   FIRMSConfig
	Weather WeatherConfig
	Model   ModelConfig
	Grid    GridConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type FIRMSConfig struct {
	Enabled      bool
	BaseURL      string
	APIKey       string
	Days         int
	PollInterval time.Duration
}

type WeatherConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ModelConfig struct {
	Path string
	Seed int64
	// ForceIndexRebuild populates the hotspot index from the corpus even
	// when a persisted classifier artifact is loaded. By default the
	// index is only built on the retrain path, so a loaded model serves
	// zero historical density until a retrain occurs.
	ForceIndexRebuild bool
}

type GridConfig struct {
	PacingDelay time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 64),
		},
		FIRMS: FIRMSConfig{
			Enabled:      getEnvBool("FIRMS_ENABLED", true),
			BaseURL:      getEnv("FIRMS_URL", "https://firms.modaps.eosdis.nasa.gov"),
			APIKey:       getEnv("FIRMS_API_KEY", ""),
			Days:         getEnvInt("FIRMS_DAYS", 2),
			PollInterval: getEnvDuration("FIRMS_POLL_INTERVAL", 30*time.Minute),
		},
		Weather: WeatherConfig{
			BaseURL: getEnv("WEATHER_URL", "https://api.open-meteo.com"),
			Timeout: getEnvDuration("WEATHER_TIMEOUT", 15*time.Second),
		},
		Model: ModelConfig{
			Path:              getEnv("MODEL_PATH", "./data/fire-risk-model.json"),
			Seed:              int64(getEnvInt("MODEL_SEED", 42)),
			ForceIndexRebuild: getEnvBool("MODEL_FORCE_INDEX_REBUILD", false),
		},
		Grid: GridConfig{
			PacingDelay: getEnvDuration("GRID_PACING_DELAY", 100*time.Millisecond),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fire-risk.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.FIRMS.PollInterval < time.Minute {
		return fmt.Errorf("FIRMS poll interval must be at least 1 minute")
	}
	if c.FIRMS.Days < 1 || c.FIRMS.Days > 10 {
		return fmt.Errorf("FIRMS days must be within [1,10]: %d", c.FIRMS.Days)
	}
	if c.Grid.PacingDelay < 0 {
		return fmt.Errorf("grid pacing delay must not be negative")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
