package help

import (
	"io"
	"log/slog"
	"os"
)

func Logger() *slog.Logger {
	return LoggerTo(os.Stdout)
}

func LoggerTo(w io.Writer) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With(
		slog.String("service", "gcTrigger"),
		slog.String("env", "test"),
	)
}
