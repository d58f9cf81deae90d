// =============================================================================
// TXT to XLSX Converter - Logging Module
// =============================================================================
//
// This module adapts go-logger (glog) to the small leveled Logger interface
// used across the converter. Messages are structured: a short message plus
// key/value pairs, e.g.
//
//   logger.Info("selected input file", "job", "INVENTORY", "file", path)
//
// FORMATS:
//   - console: human readable lines (default)
//   - json:    one JSON object per line
//   - pretty:  colored console output
//
// =============================================================================

package logging

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the leveled logging contract used by the converter packages.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config captures the options exposed by the go-logger adapter.
type Config struct {
	// Level is one of trace, debug, info, warn, error, fatal.
	// Default: info
	Level string

	// Format is one of console, json, pretty.
	// Default: console
	Format string

	// AddSource includes the caller location in each entry.
	AddSource bool
}

// Provider hands out named loggers that share one go-logger root.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider constructs a logger provider backed by go-logger.
//
// RETURNS:
//   - The provider.
//   - An error if the level or format is not recognized.
func NewProvider(cfg Config) (*Provider, error) {
	level, err := normalizeLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	options := []glog.Option{glog.WithLevel(level)}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	return &Provider{root: glog.NewLogger(options...)}, nil
}

// GetLogger returns a child logger tagged with name. A nil provider yields
// a logger that discards everything.
func (p *Provider) GetLogger(name string) Logger {
	if p == nil {
		return Nop()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

// ValidLevel reports whether level names a supported log level.
func ValidLevel(level string) bool {
	_, err := normalizeLevel(level)
	return err == nil
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console", "json", "pretty":
		return true
	}
	return false
}

func normalizeLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return glog.Info, nil
	case "trace":
		return glog.Trace, nil
	case "debug":
		return glog.Debug, nil
	case "warn", "warning":
		return glog.Warn, nil
	case "error":
		return glog.Error, nil
	case "fatal":
		return glog.Fatal, nil
	default:
		return "", fmt.Errorf("unsupported log level %q", level)
	}
}

// =============================================================================
// ADAPTERS
// =============================================================================

func wrap(inner glog.Logger) Logger {
	if inner == nil {
		return Nop()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// Nop returns a logger that discards every entry.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
