package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Supported prior-temperature backends.
const (
	StateBackendFile     = "file"
	StateBackendSQLite   = "sqlite"
	StateBackendPostgres = "postgres"
)

// Config holds all bot settings, populated from environment variables.
type Config struct {
	TelegramToken       string
	ChatID              string
	TelegramAPIEndpoint string
	TelegramTimeout     time.Duration

	LogLevel  string
	LogFormat string

	// Open-Meteo forecast source.
	WeatherAPIURL    string
	WeatherLatitude  float64
	WeatherLongitude float64
	WeatherTimezone  string
	WeatherTimeout   time.Duration

	IllustrationsDir string

	// Prior-temperature persistence.
	StateBackend string
	StatePath    string
	StateDSN     string

	PushgatewayURL string
	PushgatewayJob string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	weatherTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("WEATHER_TIMEOUT", "10s"))
	if err != nil || weatherTimeout <= 0 {
		return nil, errors.New("invalid WEATHER_TIMEOUT")
	}

	telegramTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("TELEGRAM_TIMEOUT", "30s"))
	if err != nil || telegramTimeout <= 0 {
		return nil, errors.New("invalid TELEGRAM_TIMEOUT")
	}

	lat, err := parseCoordinate("WEATHER_LATITUDE", "55.7558", 90)
	if err != nil {
		return nil, err
	}
	lon, err := parseCoordinate("WEATHER_LONGITUDE", "37.6173", 180)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(sharedcfg.EnvOrDefault("STATE_BACKEND", StateBackendFile))

	cfg := &Config{
		TelegramToken:       os.Getenv("TOKEN_TELEGRAM"),
		ChatID:              os.Getenv("CHAT_ID"),
		TelegramAPIEndpoint: sharedcfg.EnvOrDefault("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s"),
		TelegramTimeout:     telegramTimeout,
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),

		WeatherAPIURL:    sharedcfg.EnvOrDefault("WEATHER_API_URL", "https://api.open-meteo.com/v1/forecast"),
		WeatherLatitude:  lat,
		WeatherLongitude: lon,
		WeatherTimezone:  sharedcfg.EnvOrDefault("WEATHER_TIMEZONE", "Europe/Moscow"),
		WeatherTimeout:   weatherTimeout,

		IllustrationsDir: sharedcfg.EnvOrDefault("ILLUSTRATIONS_DIR", "robots"),

		StateBackend: backend,
		StatePath:    sharedcfg.EnvOrDefault("STATE_PATH", defaultStatePath(backend)),
		StateDSN:     os.Getenv("STATE_DSN"),

		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		PushgatewayJob: sharedcfg.EnvOrDefault("PUSHGATEWAY_JOB", "weather_bot"),
	}

	if cfg.TelegramToken == "" {
		return nil, errors.New("TOKEN_TELEGRAM is required")
	}
	if cfg.ChatID == "" {
		return nil, errors.New("CHAT_ID is required")
	}
	switch cfg.StateBackend {
	case StateBackendFile, StateBackendSQLite:
	case StateBackendPostgres:
		if cfg.StateDSN == "" {
			return nil, errors.New("STATE_BACKEND is postgres but STATE_DSN is not set")
		}
	default:
		return nil, fmt.Errorf("invalid STATE_BACKEND %q", cfg.StateBackend)
	}

	return cfg, nil
}

func defaultStatePath(backend string) string {
	if backend == StateBackendSQLite {
		return "weatherbot.db"
	}
	return "yesterday_temperature.txt"
}

func parseCoordinate(key, def string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
