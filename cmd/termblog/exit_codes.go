package main

import (
	"errors"
	"os"

	termblog "github.com/alnah/go-termblog"
	"github.com/alnah/go-termblog/internal/config"
	"github.com/alnah/go-termblog/internal/content"
	"github.com/alnah/go-termblog/internal/logging"
	"github.com/alnah/go-termblog/internal/pipeline"
	"github.com/alnah/go-termblog/internal/server"
	"github.com/alnah/go-termblog/internal/site"
)

// Exit codes for the termblog CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0 // Command succeeded
	ExitGeneral     = 1 // General/unexpected error
	ExitUsage       = 2 // Invalid flags, config, or validation
	ExitIO          = 3 // File not found, permission denied
	ExitBrowser     = 4 // Browser/Chrome errors
	ExitBrokenLinks = 5 // pdf: links that do not resolve
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrBrokenLinks) {
		return ExitBrokenLinks
	}

	// Browser errors (exit 4)
	if errors.Is(err, termblog.ErrBrowserConnect) ||
		errors.Is(err, termblog.ErrPageCreate) ||
		errors.Is(err, termblog.ErrPageLoad) ||
		errors.Is(err, termblog.ErrPDFGeneration) ||
		errors.Is(err, termblog.ErrExporterInit) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, termblog.ErrWritePDF) ||
		errors.Is(err, site.ErrWriteOutput) ||
		errors.Is(err, site.ErrUnsafeOutput) ||
		errors.Is(err, server.ErrNoOutputDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, termblog.ErrNilConfig) ||
		errors.Is(err, termblog.ErrInvalidAssetDir) ||
		errors.Is(err, pipeline.ErrUnknownStyle) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, content.ErrDuplicateSlug) ||
		errors.Is(err, content.ErrFrontmatter) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
