package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a structured logger: human-readable console output in development,
// JSON lines everywhere else.
func New(env, level, component string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(env, "development") {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
