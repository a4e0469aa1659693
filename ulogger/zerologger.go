package ulogger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	ansiBold   = 1
	ansiRed    = 31
	ansiGreen  = 32
	ansiYellow = 33
	ansiBlue   = 34
)

var levelColors = map[string]int{
	"debug": ansiBlue,
	"info":  ansiGreen,
	"warn":  ansiYellow,
	"error": ansiRed,
	"fatal": ansiRed,
	"panic": ansiRed,
}

// ZeroLogger writes through zerolog, either as JSON lines tagged with the
// service name or through a console writer with the service in a column.
type ZeroLogger struct {
	zl      zerolog.Logger
	service string
	out     io.Writer
	pretty  bool
}

func NewZeroLogger(service string, options ...Option) *ZeroLogger {
	if service == "" {
		service = defaultService
	}

	opts := applyOptions(options)

	z := &ZeroLogger{service: service, out: opts.writer, pretty: opts.pretty}

	if opts.pretty {
		z.zl = zerolog.New(consoleWriter(opts.writer, service)).With().Timestamp().Logger()
	} else {
		z.zl = zerolog.New(opts.writer).With().Str("service", service).Timestamp().Logger()
	}

	z.SetLogLevel(opts.logLevel)

	return z
}

func consoleWriter(out io.Writer, service string) zerolog.ConsoleWriter {
	plain := os.Getenv("NO_COLOR") != ""
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		plain = true
	}

	paint := func(s string, code int) string {
		if plain {
			return s
		}

		return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, s)
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    plain,
		TimeFormat: "15:04:05",
		FormatLevel: func(i any) string {
			name, _ := i.(string)
			return "| " + paint(strings.ToUpper(fmt.Sprintf("%-6s", name)), levelColors[name]) + "|"
		},
		FormatMessage: func(i any) string {
			return fmt.Sprintf("| %-10s| %v", paint(service, ansiBold), i)
		},
		FormatFieldName: func(i any) string {
			return fmt.Sprintf("%v:", i)
		},
	}
}

func (z *ZeroLogger) New(service string, options ...Option) Logger {
	inherited := []Option{
		WithWriter(z.out),
		WithPretty(z.pretty),
		WithLevel(z.zl.GetLevel().String()),
	}

	return NewZeroLogger(service, append(inherited, options...)...)
}

func (z *ZeroLogger) SetLogLevel(l string) {
	z.zl = z.zl.Level(parseLevel(l).zero)
}

// LogLevel reports the level on the gocore scale so callers can compare
// levels without knowing the backend.
func (z *ZeroLogger) LogLevel() int {
	for _, l := range levels {
		if l.zero == z.zl.GetLevel() {
			return l.gocore
		}
	}

	return infoLevel.gocore
}

func (z *ZeroLogger) Debugf(format string, args ...any) { z.zl.Debug().Msgf(format, args...) }
func (z *ZeroLogger) Infof(format string, args ...any)  { z.zl.Info().Msgf(format, args...) }
func (z *ZeroLogger) Warnf(format string, args ...any)  { z.zl.Warn().Msgf(format, args...) }
func (z *ZeroLogger) Errorf(format string, args ...any) { z.zl.Error().Msgf(format, args...) }
func (z *ZeroLogger) Fatalf(format string, args ...any) { z.zl.Fatal().Msgf(format, args...) }
