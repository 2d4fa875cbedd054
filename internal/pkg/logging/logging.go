package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs the global slog default logger for one binary. Every
// record carries the service name so the combined log stream of the API,
// feed worker, ingestor, and digester stays attributable.
func Setup(service, level, format string) {
	slog.SetDefault(New(os.Stdout, service, level, format))
}

// New builds a logger writing to w.
// level may be "debug", "info", "warn", or "error" (default "info");
// debug additionally records source positions.
// format may be "json" or "text" (default "json").
func New(w io.Writer, service, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if service != "" {
		logger = logger.With(slog.String("service", service))
	}
	return logger
}
