package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

const name = "housing"

// overridden during build with ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Housing price service",
		Version: version,
		Description: `Stores housing records and prices them with a pre-trained regression model.

serve   - runs the HTTP API
migrate - applies or reverts the database schema
predict - prices a number of rooms without touching the database`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			predictCmd(),
		},
	}
}
