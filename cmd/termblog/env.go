package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	termblog "github.com/alnah/go-termblog"
	"github.com/alnah/go-termblog/internal/pdfindex"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// NewExporter creates one export worker's PDF exporter.
	NewExporter func(timeout time.Duration) termblog.PDFExporter

	// Inspector reads PDFs; nil uses the ledongthuc/pdf backed default.
	Inspector pdfindex.Inspector

	// Interactive enables the terminal progress bar.
	Interactive bool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewExporter: func(timeout time.Duration) termblog.PDFExporter {
			return termblog.NewRodExporter(timeout)
		},
		Interactive: isTerminal(os.Stderr),
	}
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
