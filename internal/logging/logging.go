// Package logging builds the zerolog loggers used by the canopy commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment overrides read by New.
const (
	EnvLevel     = "CANOPY_LOG_LEVEL"
	EnvNoColor   = "CANOPY_LOG_NOCOLOR"
	EnvTimestamp = "CANOPY_LOG_TIMESTAMP"
)

// Profile selects the output format.
type Profile string

const (
	// ProfileConsole writes human-readable lines.
	ProfileConsole Profile = "console"
	// ProfileJSON writes one JSON object per line.
	ProfileJSON Profile = "json"
)

// Options configures New. Empty fields fall back to the environment, then
// to defaults.
type Options struct {
	Profile Profile
	Level   string
	App     string
}

// New returns a logger writing to out.
func New(opts Options, out io.Writer) (zerolog.Logger, error) {
	levelName := opts.Level
	if levelName == "" {
		levelName = os.Getenv(EnvLevel)
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), err
	}

	w := out
	if opts.Profile != ProfileJSON {
		cw := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    envBool(EnvNoColor),
		}
		if !envBool(EnvTimestamp) {
			cw.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		w = cw
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if opts.App != "" {
		ctx = ctx.Str("app", opts.App)
	}
	return ctx.Logger(), nil
}

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level %q: %w", name, err)
	}
	return level, nil
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
