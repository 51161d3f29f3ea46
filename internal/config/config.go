package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configFileEnv = "CONFIG_FILE"

type CWAConfig struct {
	APIKey  string `yaml:"api_key" validate:"required"`
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

// MapConfig is the initial view and the zoom used when focusing search results.
type MapConfig struct {
	CenterLat  float64 `yaml:"center_lat" validate:"gte=-90,lte=90"`
	CenterLon  float64 `yaml:"center_lon" validate:"gte=-180,lte=180"`
	Zoom       int     `yaml:"zoom" validate:"gte=0,lte=22"`
	SearchZoom int     `yaml:"search_zoom" validate:"gte=0,lte=22"`
}

type AppConfig struct {
	AppEnv   string `yaml:"app_env" validate:"oneof=dev prod"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	Port     string `yaml:"port" validate:"required,numeric"`

	CWA CWAConfig `yaml:"cwa"`

	// FetchInterval controls how often all three feeds are re-fetched.
	FetchInterval time.Duration `yaml:"fetch_interval" validate:"gt=0"`
	// HTTPTimeout bounds each outbound feed request.
	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"gt=0"`

	// LabelsVisible is the persisted state of the label toggle.
	LabelsVisible bool `yaml:"labels_visible"`

	Map MapConfig `yaml:"map"`
}

// Level returns the slog level for LogLevel.
func (c AppConfig) Level() slog.Level {
	l, _ := parseLogLevel(c.LogLevel)
	return l
}

func defaults() *AppConfig {
	return &AppConfig{
		AppEnv:        "dev",
		LogLevel:      "info",
		Port:          "8080",
		CWA:           CWAConfig{BaseURL: "https://opendata.cwa.gov.tw/api/v1/rest/datastore"},
		FetchInterval: 10 * time.Minute,
		HTTPTimeout:   15 * time.Second,
		Map: MapConfig{
			CenterLat:  25.0376,
			CenterLon:  121.5148,
			Zoom:       15,
			SearchZoom: 15,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and the environment, in that order of precedence (lowest first).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg := defaults()

	if path := os.Getenv(configFileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.AppEnv = getenvDefault("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", cfg.LogLevel))
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.CWA.APIKey = getenvDefault("CWA_API_KEY", cfg.CWA.APIKey)
	cfg.CWA.BaseURL = getenvDefault("CWA_BASE_URL", cfg.CWA.BaseURL)

	var err error
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", cfg.FetchInterval); err != nil {
		return err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.LabelsVisible, err = getenvBool("LABELS_VISIBLE", cfg.LabelsVisible); err != nil {
		return err
	}
	if cfg.Map.CenterLat, err = getenvFloat("MAP_CENTER_LAT", cfg.Map.CenterLat); err != nil {
		return err
	}
	if cfg.Map.CenterLon, err = getenvFloat("MAP_CENTER_LON", cfg.Map.CenterLon); err != nil {
		return err
	}
	cfg.Map.Zoom = getenvInt("MAP_ZOOM", cfg.Map.Zoom)
	cfg.Map.SearchZoom = getenvInt("SEARCH_ZOOM", cfg.Map.SearchZoom)
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
