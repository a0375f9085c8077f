package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/smallbiznis/housing/internal/config"
	housingdomain "github.com/smallbiznis/housing/internal/housing/domain"
	"github.com/smallbiznis/housing/internal/inference"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type prediction struct {
	Rooms int     `json:"rooms" yaml:"rooms"`
	Price float64 `json:"price" yaml:"price"`
}

func predictCmd() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Price a number of rooms with the configured model",
		Description: `Loads the model artifacts from MODEL_DIR (or --model-dir) and prints the
price the API would store for the given number of rooms.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "rooms",
				Aliases:  []string{"r"},
				Usage:    fmt.Sprintf("Number of rooms (%d-%d)", housingdomain.MinRooms, housingdomain.MaxRooms),
				Required: true,
			},
			&cli.StringFlag{
				Name:  "model-dir",
				Usage: "Directory holding scaler_x, model and scaler_y artifacts",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   formatJSON,
				Usage:   "Output format (json, yaml)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			model := config.Load().Model
			if dir := strings.TrimSpace(cmd.String("model-dir")); dir != "" {
				model.Dir = dir
			}
			return runPredict(cmd.Root().Writer, model, int(cmd.Int("rooms")), cmd.String("format"))
		},
	}
}

func runPredict(w io.Writer, model config.ModelConfig, rooms int, format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("unknown output format: %q", format)
	}
	if err := housingdomain.ValidateRooms(rooms); err != nil {
		return fmt.Errorf("rooms must be between %d and %d, got %d", housingdomain.MinRooms, housingdomain.MaxRooms, rooms)
	}

	predictor, err := inference.LoadPredictor(inference.FilesFrom(model))
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	price, err := predictor.Predict(rooms)
	if err != nil {
		return err
	}

	return writePrediction(w, format, prediction{Rooms: rooms, Price: price})
}

func writePrediction(w io.Writer, format string, p prediction) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
