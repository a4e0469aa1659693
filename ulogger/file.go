package ulogger

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewFileLogger writes JSON lines to a file that is rotated and compressed
// once it reaches maxSizeMB.
func NewFileLogger(service string, options ...Option) *ZeroLogger {
	opts := applyOptions(options)

	rotating := &lumberjack.Logger{
		Filename:   opts.filename,
		MaxSize:    opts.maxSizeMB,
		MaxBackups: opts.maxBackups,
		Compress:   true,
	}

	return NewZeroLogger(service, append(options, WithWriter(rotating), WithPretty(false))...)
}
