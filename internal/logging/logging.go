// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// Setup installs a text handler writing to w at the named level
// (debug, info, warn or error) as the slog default.
func Setup(level string, w io.Writer) error {
	if level == "" {
		level = DefaultLevel
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log level %q: use debug, info, warn or error", level)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}
