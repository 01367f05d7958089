package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Verbose enables debug-level output; the default level is warn.
	Verbose bool
	// JSON writes raw JSON lines instead of the console format.
	JSON bool
	// NoColor disables ANSI colors in the console format.
	NoColor bool
}

// New returns a logger writing to w, tagged with the program name.
func New(w io.Writer, program string, opts Options) zerolog.Logger {
	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: w, NoColor: opts.NoColor, TimeFormat: time.TimeOnly}
	}
	level := zerolog.WarnLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("program", program).Logger()
}
