// Package logging builds the zerolog loggers used by the CLI and the
// scanner.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// Config selects level and output format.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a logger writing to w. An empty level means info and an
// empty format means console.
func New(w io.Writer, c Config) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if c.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(c.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	switch c.Format {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", c.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Stderr is New writing to standard error.
func Stderr(c Config) (zerolog.Logger, error) {
	return New(os.Stderr, c)
}
