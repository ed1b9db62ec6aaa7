// Package logging exposes the structured logger used by termblog modules.
//
// Modules depend on the small Logger interface and obtain named loggers from
// a Provider. The production provider is backed by go-logger (glog); tests
// and library callers without a provider get NoOp.
package logging

import (
	"context"
	"maps"
)

// Module names used across the codebase.
const (
	ModuleBuild    = "build"
	ModuleServer   = "server"
	ModuleViewer   = "viewer"
	ModulePDFIndex = "pdfindex"
	ModuleExport   = "export"
)

// Logger is the structured logging contract used by termblog modules.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithFields(fields map[string]any) Logger
	WithContext(ctx context.Context) Logger
}

// Provider hands out named loggers.
type Provider interface {
	GetLogger(name string) Logger
}

// For returns the module logger from provider, tagged with the module name.
// A nil provider yields NoOp.
func For(provider Provider, module string) Logger {
	var logger Logger = NoOp()
	if provider != nil {
		if l := provider.GetLogger(module); l != nil {
			logger = l
		}
	}
	return logger.WithFields(map[string]any{"module": module})
}

// NoOp returns a logger that discards everything.
func NoOp() Logger { return noop{} }

type noop struct{}

func (noop) Trace(string, ...any)                { /* discard */ }
func (noop) Debug(string, ...any)                { /* discard */ }
func (noop) Info(string, ...any)                 { /* discard */ }
func (noop) Warn(string, ...any)                 { /* discard */ }
func (noop) Error(string, ...any)                { /* discard */ }
func (n noop) WithFields(map[string]any) Logger  { return n }
func (n noop) WithContext(context.Context) Logger { return n }

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return copied
}
