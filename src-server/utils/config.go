package utils

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	logLevel slog.Level
	location *time.Location
	metrics  bool

	metricsFile string
}

func NewConfig() *Config {
	return &Config{
		logLevel: func() slog.Level {
			levelStr := os.Getenv("LOG_LEVEL")
			if levelStr == "" {
				levelStr = "info"
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(levelStr)); err != nil {
				slog.Warn("invalid LOG_LEVEL, using info", "LOG_LEVEL", levelStr, "error", err)
				return slog.LevelInfo
			}
			slog.Debug("env", "LOG_LEVEL", level)
			return level
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "", "UTC":
				loc = time.UTC
			case "Local":
				slog.Warn("TIMEZONE is set to Local, links won't carry a derived ctz")
				loc = time.Local
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", loc)
			return loc
		}(),

		metrics: func() bool {
			metrics := strings.ToLower(os.Getenv("METRICS"))
			switch metrics {
			case "", "on", "true", "1":
				return true
			case "off", "false", "0":
				return false
			}
			slog.Warn("invalid METRICS, keeping metrics on", "METRICS", metrics)
			return true
		}(),

		metricsFile: func() string {
			metricsFile := os.Getenv("METRICS_FILE")
			if metricsFile != "" {
				slog.Debug("env", "METRICS_FILE", metricsFile)
			}
			return metricsFile
		}(),
	}
}

// Get LOG_LEVEL env, default to info
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}

// Get TIMEZONE env, default to UTC
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get METRICS env, default to on
func (c *Config) GetMetricsEnabled() bool {
	return c.metrics
}

// Get METRICS_FILE env, the node_exporter textfile counters are written to on
// shutdown; empty to skip
func (c *Config) GetMetricsFile() string {
	return c.metricsFile
}
