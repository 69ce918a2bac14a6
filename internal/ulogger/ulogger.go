// Package ulogger provides the logger used by the command line tool and the
// batch scanner.  The key primitives never log; they return typed errors.
package ulogger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	SetLogLevel(level string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	New(service string, options ...Option) Logger
}

type Options struct {
	writer   io.Writer
	logLevel string
	pretty   bool
}

type Option func(*Options)

func DefaultOptions() *Options {
	return &Options{
		writer:   os.Stderr,
		logLevel: "INFO",
		pretty:   true,
	}
}

func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.writer = w
	}
}

func WithLevel(level string) Option {
	return func(o *Options) {
		o.logLevel = level
	}
}

func WithPretty(pretty bool) Option {
	return func(o *Options) {
		o.pretty = pretty
	}
}

type ZLoggerWrapper struct {
	zerolog.Logger
	service string
	opts    Options
}

// New returns a zerolog backed logger for the named service.
func New(service string, options ...Option) Logger {
	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	if service == "" {
		service = "novakey"
	}

	var w io.Writer = opts.writer
	if opts.pretty {
		w = consoleWriter(opts.writer, service)
	}

	z := &ZLoggerWrapper{
		Logger:  zerolog.New(w).With().Timestamp().Str("service", service).Logger(),
		service: service,
		opts:    *opts,
	}
	z.SetLogLevel(opts.logLevel)

	return z
}

func consoleWriter(out io.Writer, service string) zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    os.Getenv("NO_COLOR") != "",
		TimeFormat: time.RFC3339,
	}

	output.FormatLevel = func(i interface{}) string {
		return fmt.Sprintf("| %s|", strings.ToUpper(fmt.Sprintf("%-6s", i)))
	}

	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("| %-8s| %s", service, i)
	}

	// the service already appears in the message column
	output.FieldsExclude = []string{"service"}

	return output
}

func (z *ZLoggerWrapper) New(service string, options ...Option) Logger {
	// make sure we set the same options as the parent
	o := []Option{
		WithWriter(z.opts.writer),
		WithLevel(z.Logger.GetLevel().String()),
		WithPretty(z.opts.pretty),
	}

	return New(service, append(o, options...)...)
}

func (z *ZLoggerWrapper) SetLogLevel(logLevel string) {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		z.Logger = z.Logger.Level(zerolog.DebugLevel)
	case "INFO":
		z.Logger = z.Logger.Level(zerolog.InfoLevel)
	case "WARN":
		z.Logger = z.Logger.Level(zerolog.WarnLevel)
	case "ERROR":
		z.Logger = z.Logger.Level(zerolog.ErrorLevel)
	case "FATAL":
		z.Logger = z.Logger.Level(zerolog.FatalLevel)
	default:
		z.Logger = z.Logger.Level(zerolog.InfoLevel)
	}
}

func (z *ZLoggerWrapper) Debugf(format string, args ...interface{}) {
	z.Logger.Debug().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Infof(format string, args ...interface{}) {
	z.Logger.Info().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Warnf(format string, args ...interface{}) {
	z.Logger.Warn().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Errorf(format string, args ...interface{}) {
	z.Logger.Error().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Fatalf(format string, args ...interface{}) {
	z.Logger.Fatal().Msgf(format, args...)
}

// NopLogger discards everything.  It is the default for library types that
// accept a logger.
type NopLogger struct{}

func (NopLogger) SetLogLevel(string) {}
func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{}) {}
func (NopLogger) Warnf(string, ...interface{}) {}
func (NopLogger) Errorf(string, ...interface{}) {}
func (NopLogger) Fatalf(string, ...interface{}) {}
func (n NopLogger) New(string, ...Option) Logger { return n }
