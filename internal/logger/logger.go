// Package logger holds the process-wide structured logger and the
// component loggers derived from it.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.RWMutex
	global *log.Logger
)

type settings struct {
	out  io.Writer
	json bool
}

// Option tweaks Initialize
type Option func(*settings)

// WithWriter sends log lines to w instead of stderr
func WithWriter(w io.Writer) Option {
	return func(s *settings) { s.out = w }
}

// JSON switches to one JSON object per line, for log shippers
func JSON() Option {
	return func(s *settings) { s.json = true }
}

// Initialize replaces the global logger. Unknown levels fall back to info.
func Initialize(level string, opts ...Option) {
	s := settings{out: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}

	l := log.NewWithOptions(s.out, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Level:           parseLevel(level),
	})
	if s.json {
		l.SetFormatter(log.JSONFormatter)
	}

	mu.Lock()
	global = l
	mu.Unlock()

	l.Debug("Logger initialized", "level", l.GetLevel().String(), "json", s.json)
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return log.WarnLevel
	case "":
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Get returns the global logger, creating an info level one on first use
func Get() *log.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	Initialize("info")
	return Get()
}

// WithContext returns the global logger with extra key/value pairs
func WithContext(fields ...any) *log.Logger {
	return Get().With(fields...)
}

func Service(name string) *log.Logger {
	return WithContext("service", name)
}

func Repository(name string) *log.Logger {
	return WithContext("component", "repository", "repository", name)
}

func Handler(name string) *log.Logger {
	return WithContext("component", "handler", "handler", name)
}

func Database() *log.Logger  { return WithContext("component", "database") }
func HTTP() *log.Logger      { return WithContext("component", "http") }
func Migration() *log.Logger { return WithContext("component", "migration") }
func Import() *log.Logger    { return WithContext("component", "import") }
func Realtime() *log.Logger  { return WithContext("component", "realtime") }
