package bind

import "github.com/rs/zerolog"

// LoggerKey holds the logger hooks use to report bad props.
var LoggerKey = NewKey[zerolog.Logger]("logger")

// LoggerFrom returns the logger in ctx, or a disabled logger.
func LoggerFrom(ctx Context) zerolog.Logger {
	if log, ok := LoggerKey.From(ctx); ok {
		return log
	}
	return zerolog.Nop()
}
