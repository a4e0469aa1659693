// Package ulogger is the printf style logging facade used by every ledger
// component. zerolog backs it by default; gocore and a rotating file are
// available through WithLoggerType.
package ulogger

import (
	"strings"

	"github.com/ordishs/gocore"
	"github.com/rs/zerolog"
)

type Logger interface {
	LogLevel() int
	SetLogLevel(level string)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	// New derives a logger for another component sharing this one's output.
	New(service string, options ...Option) Logger
}

type level struct {
	name   string
	zero   zerolog.Level
	gocore int
}

var levels = []level{
	{"DEBUG", zerolog.DebugLevel, int(gocore.DEBUG)},
	{"INFO", zerolog.InfoLevel, int(gocore.INFO)},
	{"WARN", zerolog.WarnLevel, int(gocore.WARN)},
	{"ERROR", zerolog.ErrorLevel, int(gocore.ERROR)},
	{"FATAL", zerolog.FatalLevel, int(gocore.FATAL)},
}

var infoLevel = levels[1]

// parseLevel falls back to INFO for anything it does not recognise.
func parseLevel(s string) level {
	s = strings.ToUpper(strings.TrimSpace(s))

	for _, l := range levels {
		if l.name == s {
			return l
		}
	}

	return infoLevel
}

func New(service string, options ...Option) Logger {
	switch applyOptions(options).loggerType {
	case "gocore":
		return NewGoCoreLogger(service, options...)
	case "file":
		return NewFileLogger(service, options...)
	default:
		return NewZeroLogger(service, options...)
	}
}
