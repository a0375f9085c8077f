package db

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/housing/internal/config"
	obslogger "github.com/smallbiznis/housing/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

const pingTimeout = 5 * time.Second

// Module provides the shared *gorm.DB handle. The handle is injected into
// services explicitly and closed when the application stops.
var Module = fx.Module("db",
	fx.Provide(New),
)

// Open connects to the configured database, applies pool settings and pings it.
func Open(ctx context.Context, cfg Config) (*gorm.DB, Driver, error) {
	dialector, driver, err := Dialect(cfg)
	if err != nil {
		return nil, "", err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 obslogger.NewGormLogger(obslogger.DefaultGormLoggerConfig(cfg.Debug)),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, "", err
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, "", fmt.Errorf("ping %s database: %w", driver, err)
	}

	return conn, driver, nil
}

// New opens the database for the HTTP service with tracing and pool metrics attached.
func New(lc fx.Lifecycle, appCfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	conn, driver, err := Open(context.Background(), ConfigFrom(appCfg))
	if err != nil {
		return nil, err
	}

	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithDBName(string(driver)))); err != nil {
		return nil, fmt.Errorf("register tracing plugin: %w", err)
	}
	if err := conn.Use(gormprometheus.New(gormprometheus.Config{
		DBName:          string(driver),
		RefreshInterval: 15,
	})); err != nil {
		return nil, fmt.Errorf("register metrics plugin: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			log.Info("closing database connection", zap.String("driver", string(driver)))
			return sqlDB.Close()
		},
	})

	log.Info("database connected", zap.String("driver", string(driver)))
	return conn, nil
}
