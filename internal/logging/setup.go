// Package logging builds the slog handlers used by the parklynx binary.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atlanticdynamic/parklynx/internal/logging/writers"
	"github.com/charmbracelet/log"
)

// verbosity is the parsed form of a level string. "trace" is debug with
// timestamps and caller information.
type verbosity struct {
	level      slog.Level
	timestamps bool
	caller     bool
}

func parseVerbosity(logLevel string) verbosity {
	switch strings.ToLower(logLevel) {
	case "trace":
		return verbosity{level: slog.LevelDebug, timestamps: true, caller: true}
	case "debug":
		return verbosity{level: slog.LevelDebug, timestamps: true}
	case "warn", "warning":
		return verbosity{level: slog.LevelWarn}
	case "error":
		return verbosity{level: slog.LevelError}
	default:
		return verbosity{level: slog.LevelInfo}
	}
}

// SetupHandlerText returns a charmbracelet/log handler writing to writer,
// stderr when nil.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}
	v := parseVerbosity(logLevel)

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: v.timestamps,
		ReportCaller:    v.caller,
		Level:           log.Level(v.level),
	})
}

// SetupHandlerJSON returns a JSON handler writing to writer, stdout when nil.
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}
	v := parseVerbosity(logLevel)

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     v.level,
		AddSource: v.caller,
	})
}

// NewHandler picks the handler for format: "json", or text for anything else.
func NewHandler(format, logLevel string, writer io.Writer) slog.Handler {
	if strings.EqualFold(format, "json") {
		return SetupHandlerJSON(logLevel, writer)
	}
	return SetupHandlerText(logLevel, writer)
}

// SetupLogger installs the default logger. output is parsed by
// writers.CreateWriter; an empty output means stderr.
func SetupLogger(format, logLevel, output string) (slog.Handler, error) {
	var writer io.Writer = os.Stderr
	if output != "" {
		w, err := writers.CreateWriter(output)
		if err != nil {
			return nil, fmt.Errorf("failed to open log output: %w", err)
		}
		writer = w
	}

	handler := NewHandler(format, logLevel, writer)
	slog.SetDefault(slog.New(handler))
	return handler, nil
}
