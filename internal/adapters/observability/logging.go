package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig selects where and how a binary logs.
type LogConfig struct {
	Env     string // "dev"/"development" switches to the console writer
	Level   string // zerolog level name; empty or unknown means info
	Service string // stamped on every event when set
	Out     io.Writer
}

// NewLogger builds the process logger. The roomgen binary passes stderr so its stdout stays
// reserved for the room report; the API logs to stdout.
func NewLogger(c LogConfig) zerolog.Logger {
	out := c.Out
	if out == nil {
		out = os.Stderr
	}
	if c.Env == "dev" || c.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if c.Service != "" {
		ctx = ctx.Str("service", c.Service)
	}
	return ctx.Logger()
}
