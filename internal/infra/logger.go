package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger: human-readable console output in
// development, JSON elsewhere.
func NewLogger(env string) zerolog.Logger {
	if env == "development" {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
