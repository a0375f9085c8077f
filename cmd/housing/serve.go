package main

import (
	"context"
	"time"

	"github.com/smallbiznis/housing/internal/config"
	"github.com/smallbiznis/housing/internal/housing"
	"github.com/smallbiznis/housing/internal/inference"
	"github.com/smallbiznis/housing/internal/observability"
	"github.com/smallbiznis/housing/internal/ratelimit"
	"github.com/smallbiznis/housing/internal/server"
	"github.com/smallbiznis/housing/pkg/db"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const stopTimeout = 15 * time.Second

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Description: `Loads the model artifacts, connects to DATABASE_URL and serves the housing API.
The schema must already exist; run "housing migrate up" first.`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return serve(ctx)
		},
	}
}

func newApp(opts ...fx.Option) *fx.App {
	return fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		db.Module,

		// Functional Domains
		inference.Module,
		housing.Module,
		ratelimit.Module,
		server.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Options(opts...),
	)
}

func serve(ctx context.Context) error {
	app := newApp()
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
	defer cancelStop()
	return app.Stop(stopCtx)
}
