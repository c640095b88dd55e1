package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel overrides the configured log level
	EnvLogLevel = "LABELSDB_LOG_LEVEL"
	// EnvJSONLog switches output to JSON when set to "1"
	EnvJSONLog = "LABELSDB_JSON_LOG"

	DefaultLevel = "warn"
	linePrefix   = "🏷️  "
)

// NewLogger creates a new hclog logger with standard settings.
// A level of the form "json:debug" forces JSON output.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv(EnvJSONLog) == "1"
	if strings.HasPrefix(level, "json") {
		jsonFormat = true
		level = strings.TrimPrefix(strings.TrimPrefix(level, "json"), ":")
		if level == "" {
			level = "info"
		}
	}

	if !jsonFormat {
		output = NewPrefixWriter(linePrefix, output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// ResolveLevel picks the log level: flag, then environment, then config
// file, then the default. It also reports where the value came from.
func ResolveLevel(flagLevel, configLevel string) (level string, source string) {
	if flagLevel != "" {
		return flagLevel, "--log-level"
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		return env, EnvLogLevel
	}
	if configLevel != "" {
		return configLevel, "config"
	}
	return DefaultLevel, "default"
}
