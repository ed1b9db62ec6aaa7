package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/alnah/go-termblog/internal/hints"
)

// Reporter provides progress feedback during PDF export.
// Implementations are safe for concurrent use by export workers.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// newReporter returns a TerminalReporter for interactive terminals, a
// LineReporter in CI or when output is piped, and a silent reporter when
// quiet.
func newReporter(w io.Writer, interactive, quiet bool) Reporter {
	switch {
	case quiet:
		return nopReporter{}
	case interactive && !hints.InCI():
		return &TerminalReporter{w: w}
	default:
		return &LineReporter{w: w}
	}
}

// TerminalReporter displays a progress bar.
type TerminalReporter struct {
	w   io.Writer
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Exporting posts"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints line-by-line progress suitable for CI logs.
type LineReporter struct {
	w     io.Writer
	mu    sync.Mutex
	total int
}

func (r *LineReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	fmt.Fprintf(r.w, "Exporting %d posts\n", total)
}

func (r *LineReporter) Update(current int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *LineReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, "Export complete")
}

type nopReporter struct{}

func (nopReporter) Start(int)          {}
func (nopReporter) Update(int, string) {}
func (nopReporter) Finish()            {}
