package config

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a structured logger writing to w. The level comes from
// LOG_LEVEL (debug, info, warn, error) and defaults to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown LOG_LEVEL, using info", "err", err)
	}
	return logger
}
