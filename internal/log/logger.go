package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Console logging for the floorcast server. Every logger carries the service
// field so floorcast lines are filterable when several processes share a box.
const serviceName = "floorcast"

// New builds a console logger at the given level (trace, debug, info, warn,
// error). Unrecognized levels fall back to info.
func New(level string) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	logger := zerolog.New(output).Level(lvl).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	return &logger
}
