package estimation

import (
	"context"
	"log/slog"
)

// LevelTrace is the slog level of the per-layer estimation records.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a record at LevelTrace on the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}

	return (a + b - 1) / b
}
