package logging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// ErrInvalidFormat is returned for an unknown log format.
var ErrInvalidFormat = errors.New("invalid log format")

// ErrInvalidLevel is returned for an unknown log level.
var ErrInvalidLevel = errors.New("invalid log level")

// Formats accepted by NewProvider.
var Formats = []string{"console", "json", "pretty"}

// Levels accepted by NewProvider.
var Levels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// Config selects the level and output format of the glog provider.
type Config struct {
	Level     string
	Format    string
	AddSource bool
}

// GlogProvider wraps a go-logger root logger.
type GlogProvider struct {
	root *glog.BaseLogger
}

// NewProvider builds a go-logger backed provider.
// Empty level means info, empty format means console.
func NewProvider(cfg Config) (*GlogProvider, error) {
	level, err := NormalizeLevel(cfg.Level)
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
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrInvalidFormat, cfg.Format, strings.Join(Formats, ", "))
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	return &GlogProvider{root: glog.NewLogger(options...)}, nil
}

// GetLogger returns a child logger named name, or the root for "".
func (p *GlogProvider) GetLogger(name string) Logger {
	if p == nil || p.root == nil {
		return NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

// NormalizeLevel maps a user level name to a glog level.
func NormalizeLevel(level string) (string, error) {
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
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrInvalidLevel, level, strings.Join(Levels, ", "))
	}
}

func wrap(inner glog.Logger) Logger {
	if inner == nil {
		return NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

func (l *adapter) WithFields(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	if with, ok := l.inner.(glog.FieldsLogger); ok {
		return wrap(with.WithFields(cloneFields(fields)))
	}

	// Fall back to sorted key/value pairs.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	if with, ok := l.inner.(interface{ With(...any) *glog.BaseLogger }); ok {
		return wrap(with.With(args...))
	}
	return l
}

func (l *adapter) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	return wrap(l.inner.WithContext(ctx))
}
