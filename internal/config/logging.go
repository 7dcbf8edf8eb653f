package config

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// ParseLogLevel accepts debug, info, warn, error and fatal.
func ParseLogLevel(level string) (log.Level, error) {
	l, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// NewLogger returns a logger writing to w at the configured level.
func (s *Settings) NewLogger(w io.Writer) *log.Logger {
	level, err := ParseLogLevel(s.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{Level: level})
}
