package ulogger

// TestLogger drops every line.
type TestLogger struct{}

func (TestLogger) LogLevel() int                  { return 0 }
func (TestLogger) SetLogLevel(string)             {}
func (TestLogger) Debugf(string, ...any)          {}
func (TestLogger) Infof(string, ...any)           {}
func (TestLogger) Warnf(string, ...any)           {}
func (TestLogger) Errorf(string, ...any)          {}
func (TestLogger) Fatalf(string, ...any)          {}
func (l TestLogger) New(string, ...Option) Logger { return l }
