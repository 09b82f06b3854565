package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger to write to path. The terminal
// belongs to the UI, so logs never go to stdout. An empty path discards
// everything. The returned closer releases the log file.
func Init(path, level string) (*slog.Logger, io.Closer, error) {
	var w io.Writer = io.Discard
	var closer io.Closer = nopCloser{}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = f
	}

	logger := New(w, level)
	slog.SetDefault(logger)
	return logger, closer, nil
}

// New builds a text logger at the given level.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithVideo returns a logger scoped to one video.
func WithVideo(logger *slog.Logger, videoID, title string) *slog.Logger {
	return logger.With(
		"video_id", videoID,
		"title", title,
	)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
