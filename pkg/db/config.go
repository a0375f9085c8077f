package db

import (
	"time"

	"github.com/smallbiznis/housing/internal/config"
)

type Config struct {
	URL             string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime time.Duration
	Debug           bool
}

// ConfigFrom maps the application settings onto the connection settings.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		URL:             cfg.DatabaseURL,
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetime) * time.Second,
		Debug:           cfg.Environment == "development",
	}
}
