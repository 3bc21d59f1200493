// Package logging builds the slog logger of the binaries.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/internal/config"
)

var ErrUnknownFormat = errors.New("unknown log format")

// New returns a logger writing to w with the level and format of cfg.
func New(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "json", "":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", cfg.Format)
	}
}

// Init builds the logger and sets it as the default one.
func Init(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	logger, err := New(w, cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return logger, nil
}
