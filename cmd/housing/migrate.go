package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/smallbiznis/housing/internal/config"
	"github.com/smallbiznis/housing/internal/migration"
	"github.com/smallbiznis/housing/pkg/db"
	"github.com/urfave/cli/v3"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withDatabase(ctx, func(m migrator) error {
						if err := migration.RunMigrations(m.sqlDB, m.driver); err != nil {
							return err
						}
						return printVersion(cmd, m)
					})
				},
			},
			{
				Name:  "down",
				Usage: "Revert applied migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "steps",
						Value: 1,
						Usage: "Number of migrations to revert",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withDatabase(ctx, func(m migrator) error {
						if err := migration.Rollback(m.sqlDB, m.driver, int(cmd.Int("steps"))); err != nil {
							return err
						}
						return printVersion(cmd, m)
					})
				},
			},
			{
				Name:  "version",
				Usage: "Print the applied schema version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withDatabase(ctx, func(m migrator) error {
						return printVersion(cmd, m)
					})
				},
			},
		},
	}
}

type migrator struct {
	sqlDB  *sql.DB
	driver db.Driver
}

func withDatabase(ctx context.Context, fn func(m migrator) error) error {
	cfg, err := config.Provide()
	if err != nil {
		return err
	}

	conn, driver, err := db.Open(ctx, db.ConfigFrom(cfg))
	if err != nil {
		return err
	}
	handle, err := conn.DB()
	if err != nil {
		return err
	}
	defer handle.Close()

	return fn(migrator{sqlDB: handle, driver: driver})
}

func printVersion(cmd *cli.Command, m migrator) error {
	version, dirty, err := migration.Version(m.sqlDB, m.driver)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "driver=%s version=%d dirty=%t\n", m.driver, version, dirty)
	return err
}
