package observability

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/smallbiznis/housing/internal/config"
)

const (
	protocolGRPC = "grpc"
	protocolHTTP = "http/protobuf"
)

// Config holds the logging and tracing settings of the housing service.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

// LoadConfig layers the observability environment variables over the
// application config. Tracing stays off unless OTEL_ENABLED is set.
func LoadConfig(cfg config.Config) (Config, error) {
	out := Config{
		ServiceName:          firstNonEmpty(cfg.AppName, "housing"),
		Environment:          firstNonEmpty(os.Getenv("DEPLOYMENT_ENV"), cfg.Environment),
		Version:              firstNonEmpty(os.Getenv("SERVICE_VERSION"), cfg.AppVersion),
		LogLevel:             strings.ToLower(firstNonEmpty(os.Getenv("LOG_LEVEL"), "info")),
		OtelExporterEndpoint: firstNonEmpty(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), cfg.OTLPEndpoint),
	}

	defaultFormat := "json"
	if isDevEnv(out.Environment) {
		defaultFormat = "console"
	}
	out.LogFormat = strings.ToLower(firstNonEmpty(os.Getenv("LOG_FORMAT"), defaultFormat))

	enabled, err := envBool("OTEL_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	out.OtelEnabled = enabled

	protocol, err := normalizeProtocol(firstNonEmpty(
		os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL"),
		os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"),
		protocolGRPC,
	))
	if err != nil {
		return Config{}, err
	}
	out.OtelExporterProtocol = protocol

	ratio, err := envFloat("OTEL_SAMPLING_RATIO", 0.1)
	if err != nil {
		return Config{}, err
	}
	out.OtelSamplingRatio = clampRatio(ratio)

	return out, nil
}

// Debug reports whether verbose logging applies.
func (c Config) Debug() bool {
	return c.LogLevel == "debug" || isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func normalizeProtocol(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "grpc":
		return protocolGRPC, nil
	case "http", "http/protobuf":
		return protocolHTTP, nil
	}
	return "", fmt.Errorf("unsupported OTLP protocol %q", raw)
}

func clampRatio(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func envBool(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s: invalid boolean %q", key, raw)
}

func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
