package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/config"
)

// New builds a text or JSON slog logger writing to w at the configured level.
func New(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
