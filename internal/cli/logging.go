package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging configures the global zerolog logger. format is "console",
// "json" or "auto", which picks console output on a terminal.
func SetupLogging(level, format string, f *os.File) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)

	var w io.Writer
	switch strings.ToLower(format) {
	case "json":
		w = f
	case "console":
		w = ConsoleWriter(f)
	case "", "auto":
		if isTerminal(f) {
			w = ConsoleWriter(f)
		} else {
			w = f
		}
	default:
		return fmt.Errorf("invalid log format %q (want console, json or auto)", format)
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConsoleWriter returns a human readable zerolog writer, colored only on a
// terminal
func ConsoleWriter(f *os.File) io.Writer {
	return zerolog.ConsoleWriter{Out: f, NoColor: !isTerminal(f), TimeFormat: time.DateTime}
}
