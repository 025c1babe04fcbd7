package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Console output in dev, plain JSON
// in prod so log shippers can parse it.
func New(appMode string) zerolog.Logger {
	var logger zerolog.Logger

	if appMode == "prod" {
		logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("env", appMode).
			Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(output).With().
			Timestamp().
			Str("env", appMode).
			Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return logger
}
