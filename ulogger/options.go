package ulogger

import (
	"io"
	"os"
)

const defaultService = "utxoledger"

type Options struct {
	logLevel   string
	loggerType string
	writer     io.Writer
	pretty     bool

	// rotating file target, used by the "file" logger type
	filename   string
	maxSizeMB  int
	maxBackups int
}

type Option func(*Options)

func DefaultOptions() *Options {
	return &Options{
		logLevel:   "INFO",
		loggerType: "zerolog",
		writer:     os.Stdout,
		pretty:     true,
		filename:   defaultService + ".log",
		maxSizeMB:  100,
		maxBackups: 3,
	}
}

func applyOptions(options []Option) *Options {
	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	return opts
}

func WithLevel(level string) Option {
	return func(o *Options) { o.logLevel = level }
}

// WithLoggerType picks the backend: zerolog, gocore or file.
func WithLoggerType(loggerType string) Option {
	return func(o *Options) { o.loggerType = loggerType }
}

func WithWriter(w io.Writer) Option {
	return func(o *Options) { o.writer = w }
}

func WithFile(filename string, maxSizeMB, maxBackups int) Option {
	return func(o *Options) {
		o.filename = filename
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
	}
}

// WithPretty switches between the console writer and JSON lines.
func WithPretty(pretty bool) Option {
	return func(o *Options) { o.pretty = pretty }
}
