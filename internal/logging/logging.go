package logging

import (
	"log/slog"
	"os"
)

// Init configures the global slog logger.
// In release mode it uses JSON output for log aggregation; otherwise the
// human-readable text handler.
func Init(ginMode string) {
	var handler slog.Handler
	if ginMode == "release" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithTask returns a logger with task context fields attached.
func WithTask(projectID, taskID uint64) *slog.Logger {
	return slog.With(
		"project_id", projectID,
		"task_id", taskID,
	)
}
