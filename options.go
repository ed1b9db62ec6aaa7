package termblog

import (
	"time"

	"github.com/alnah/go-termblog/internal/assets"
	"github.com/alnah/go-termblog/internal/logging"
	"github.com/alnah/go-termblog/internal/pdfindex"
	"github.com/alnah/go-termblog/internal/pipeline"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger routes build, pdfindex and export logs through provider.
func WithLogger(provider logging.Provider) Option {
	return func(b *Builder) {
		b.logs = provider
	}
}

// WithAssetLoader replaces the template and static file loader. It takes
// precedence over assets.basePath.
func WithAssetLoader(loader assets.Loader) Option {
	return func(b *Builder) {
		b.loader = loader
	}
}

// WithRenderer replaces the markdown renderer.
func WithRenderer(r pipeline.HTMLConverter) Option {
	return func(b *Builder) {
		b.renderer = r
	}
}

// WithInspector replaces the PDF inspector used to index documents.
func WithInspector(i pdfindex.Inspector) Option {
	return func(b *Builder) {
		b.inspector = i
	}
}

// WithClock sets the time source for undated posts and the footer year.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithWorkers sets how many posts render concurrently (0 = GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}
