// pkg/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the shared logger for the balancer binaries.
var Log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	Log = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", "stock-balancer").
		Logger()
}

// SetLevel adjusts verbosity. Server mode labels are accepted alongside
// zerolog level names: "debug" enables debug logging, "release" and "test"
// run at info.
func SetLevel(levelStr string) {
	var level zerolog.Level
	switch levelStr {
	case "release", "test":
		level = zerolog.InfoLevel
	default:
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			Log.Warn().Str("level", levelStr).Msg("unknown log level, defaulting to info")
			parsed = zerolog.InfoLevel
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}
