package termblog

import "errors"

// Sentinel errors for library operations.
var (
	ErrNilConfig       = errors.New("config cannot be nil")
	ErrInvalidAssetDir = errors.New("invalid asset path")
	ErrRender          = errors.New("rendering failed")
	ErrNoBuild         = errors.New("export needs a completed build")

	// Export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrExporterInit   = errors.New("failed to initialize exporter")
	ErrWritePDF       = errors.New("failed to write PDF file")
)
