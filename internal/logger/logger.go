package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var output io.Writer = os.Stderr

// Init sets the global level and output for one binary. Every entry carries a
// timestamp and the component name so api and worker logs can share a sink.
// Unknown levels fall back to info.
func Init(level, format, component string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	out := output
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("component", component).
		Logger()
}

func Get() zerolog.Logger {
	return log.Logger
}
