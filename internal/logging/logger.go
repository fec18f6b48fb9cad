// Package logging builds the process logger shared by the harvest commands.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Options selects level and format of the logger
type Options struct {
	Verbose bool
	JSON    bool
}

// New returns a logger writing to w. Human-readable console output unless JSON is set;
// info level unless Verbose is set.
func New(w io.Writer, opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
