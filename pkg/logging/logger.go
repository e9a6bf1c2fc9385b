package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// InitLogging initializes the process logger. Debug mode writes
// human-readable console output, anything else writes JSON.
func InitLogging(mode string) {
	if mode == "debug" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// Infof logs info level messages
func Infof(format string, v ...interface{}) {
	logger.Info().Msgf(format, v...)
}

// Warnf logs warning level messages
func Warnf(format string, v ...interface{}) {
	logger.Warn().Msgf(format, v...)
}

// Errorf logs error level messages
func Errorf(format string, v ...interface{}) {
	logger.Error().Msgf(format, v...)
}
