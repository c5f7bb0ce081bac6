package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// LogLevelEnv selects the log level (debug, info, warn, error).
const LogLevelEnv = "CROSSING_LOG_LEVEL"

// NewLogger returns a timestamped logger writing to w, at the level named by
// CROSSING_LOG_LEVEL (info when unset or unknown).
func NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(GetEnv(LogLevelEnv, "info"))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
