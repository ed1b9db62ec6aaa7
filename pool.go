package termblog

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// Pool hands out exporters to export workers.
type Pool interface {
	Acquire() PDFExporter
	Release(PDFExporter)
	Size() int
}

// Compile-time check that ExporterPool implements Pool.
var _ Pool = (*ExporterPool)(nil)

// ExporterPool manages exporters for parallel export. Each exporter owns
// its own browser. Exporters are created lazily on first acquire to avoid
// startup delay when nothing is exported.
type ExporterPool struct {
	size      int
	newFunc   func() PDFExporter
	exporters []PDFExporter
	sem       chan PDFExporter
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewExporterPool creates a pool with capacity for n exporters built by
// newFunc.
func NewExporterPool(n int, newFunc func() PDFExporter) *ExporterPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	return &ExporterPool{
		size:      n,
		newFunc:   newFunc,
		exporters: make([]PDFExporter, 0, n),
		sem:       make(chan PDFExporter, n),
	}
}

// Acquire gets an exporter from the pool, creating one if needed.
// Blocks if all exporters are in use. Returns nil once the pool is closed
// or when newFunc yields nil.
func (p *ExporterPool) Acquire() PDFExporter {
	// Try to get an existing exporter (non-blocking)
	select {
	case e := <-p.sem:
		return e
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new exporter outside the lock
		e := p.newFunc()
		if e == nil {
			return nil
		}

		p.mu.Lock()
		p.exporters = append(p.exporters, e)
		p.mu.Unlock()

		return e
	}
	p.mu.Unlock()

	// All exporters created, wait for one to be released
	return <-p.sem
}

// Release returns an exporter to the pool. The channel holds every
// exporter the pool can create, so the send never blocks under the lock.
func (p *ExporterPool) Release(e PDFExporter) {
	if e == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- e
	}
}

// Close releases all browser resources.
// Returns an aggregated error if several exporters fail to close.
func (p *ExporterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	exporters := p.exporters
	p.mu.Unlock()

	var errs []error
	for _, e := range exporters {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ExporterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the export pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
