package ulogger

import (
	"fmt"
	"sync"
	"testing"
)

// VerboseTestLogger sends lines to t.Logf, so they only show for failing
// tests or with -v.
type VerboseTestLogger struct {
	t       testing.TB
	service string
	mu      *sync.Mutex
}

func NewVerboseTestLogger(t testing.TB) *VerboseTestLogger {
	return &VerboseTestLogger{t: t, mu: &sync.Mutex{}}
}

func (l *VerboseTestLogger) New(service string, _ ...Option) Logger {
	return &VerboseTestLogger{t: l.t, service: service, mu: l.mu}
}

func (l *VerboseTestLogger) LogLevel() int      { return 0 }
func (l *VerboseTestLogger) SetLogLevel(string) {}

func (l *VerboseTestLogger) line(lvl, format string, args []any) string {
	return fmt.Sprintf("%-5s %s: %s", lvl, l.service, fmt.Sprintf(format, args...))
}

func (l *VerboseTestLogger) write(lvl, format string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.t.Helper()
	l.t.Log(l.line(lvl, format, args))
}

func (l *VerboseTestLogger) Debugf(format string, args ...any) { l.write("DEBUG", format, args) }
func (l *VerboseTestLogger) Infof(format string, args ...any)  { l.write("INFO", format, args) }
func (l *VerboseTestLogger) Warnf(format string, args ...any)  { l.write("WARN", format, args) }
func (l *VerboseTestLogger) Errorf(format string, args ...any) { l.write("ERROR", format, args) }

func (l *VerboseTestLogger) Fatalf(format string, args ...any) {
	l.t.Helper()
	l.t.Fatal(l.line("FATAL", format, args))
}
