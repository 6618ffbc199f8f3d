// Package logging sets up the process logger: human-readable console
// output on stderr, plus an optional size-rotated file sink.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the root logger. Unknown level strings fall back to info.
// When file is non-empty, JSON log lines are also written there with
// rotation at 20 MB, keeping 5 old files for up to 28 days.
func New(level, file string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}

	var out io.Writer = console
	if file != "" {
		out = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     28,
		})
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
