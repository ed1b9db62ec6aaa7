package termblog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-termblog/internal/process"
)

// DefaultExportTimeout bounds one page print when the config sets none.
const DefaultExportTimeout = 30 * time.Second

// PDFExporter prints a web page to PDF.
type PDFExporter interface {
	Export(ctx context.Context, pageURL string) ([]byte, error)
	Close() error
}

// Compile-time interface implementation check.
var _ PDFExporter = (*RodExporter)(nil)

// RodExporter prints pages with headless Chrome via go-rod.
// Rod downloads Chromium on first run if none is found. The browser is
// started on the first Export and reused until Close.
type RodExporter struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// NewRodExporter creates an exporter whose page loads time out after
// timeout (0 = DefaultExportTimeout).
func NewRodExporter(timeout time.Duration) *RodExporter {
	if timeout <= 0 {
		timeout = DefaultExportTimeout
	}
	return &RodExporter{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *RodExporter) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	r.launcher = l
	return nil
}

// Export loads pageURL and prints it. Page size and margins come from the
// page's @page rule.
func (r *RodExporter) Export(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// Close shuts the browser down and kills any Chrome helpers left behind.
func (r *RodExporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if pid := r.launcher.PID(); pid > 0 {
		// Best effort: the browser may already be gone.
		_ = process.KillTree(pid)
	}
	r.launcher.Kill()
	r.browser = nil
	r.launcher = nil
	return err
}
