package ulogger

import (
	"github.com/ordishs/gocore"
)

type GoCoreLogger struct {
	logger *gocore.Logger
}

func NewGoCoreLogger(service string, options ...Option) *GoCoreLogger {
	if service == "" {
		service = defaultService
	}

	lvl := parseLevel(applyOptions(options).logLevel)

	return &GoCoreLogger{gocore.Log(service, gocore.NewLogLevelFromString(lvl.name))}
}

func (g *GoCoreLogger) New(service string, _ ...Option) Logger {
	return &GoCoreLogger{gocore.Log(service, g.logger.GetLogLevel())}
}

// SetLogLevel does nothing. gocore loggers keep the level they were made with.
func (g *GoCoreLogger) SetLogLevel(string) {}

func (g *GoCoreLogger) LogLevel() int { return int(g.logger.GetLogLevel()) }

func (g *GoCoreLogger) Debugf(format string, args ...any) { g.logger.Debugf(format, args...) }
func (g *GoCoreLogger) Infof(format string, args ...any)  { g.logger.Infof(format, args...) }
func (g *GoCoreLogger) Warnf(format string, args ...any)  { g.logger.Warnf(format, args...) }
func (g *GoCoreLogger) Errorf(format string, args ...any) { g.logger.Errorf(format, args...) }
func (g *GoCoreLogger) Fatalf(format string, args ...any) { g.logger.Fatalf(format, args...) }
