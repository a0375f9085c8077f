package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the validated application Config.
var Module = fx.Module("config",
	fx.Provide(Provide),
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DatabaseURL       string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Model     ModelConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig

	CORSAllowedOrigins []string
}

// ModelConfig locates the pre-trained inference artifacts.
type ModelConfig struct {
	Dir       string
	ScalerX   string
	Regressor string
	ScalerY   string
	Watch     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Rate  float64
	Burst int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:           getenv("APP_SERVICE", "housing"),
		AppVersion:        getenv("APP_VERSION", "1.0.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		Model: ModelConfig{
			Dir:       getenv("MODEL_DIR", "./model"),
			ScalerX:   getenv("MODEL_SCALER_X", "scaler_x.json"),
			Regressor: getenv("MODEL_REGRESSOR", "housing-ml.json"),
			ScalerY:   getenv("MODEL_SCALER_Y", "scaler_y.json"),
			Watch:     getenvBool("MODEL_WATCH", true),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Rate:  getenvFloat("RATE_LIMIT_RATE", 5),
			Burst: getenvInt("RATE_LIMIT_BURST", 20),
		},
		CORSAllowedOrigins: parseList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

// Provide loads the configuration and rejects it when the database is not configured.
func Provide() (Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the HTTP service cannot start without.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

// Paths returns the scaler_x, regressor and scaler_y artifact paths.
func (m ModelConfig) Paths() (scalerX, regressor, scalerY string) {
	return m.path(m.ScalerX), m.path(m.Regressor), m.path(m.ScalerY)
}

func (m ModelConfig) path(name string) string {
	if filepath.IsAbs(name) || m.Dir == "" {
		return name
	}
	return filepath.Join(m.Dir, name)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
