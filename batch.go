package termblog

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-termblog/internal/fileutil"
	"github.com/alnah/go-termblog/internal/logging"
	"github.com/alnah/go-termblog/internal/pipeline"
	"github.com/alnah/go-termblog/internal/site"
)

// Permissions for exported files.
const dirPermissions = 0o750

// ExportJob is one post page to print.
type ExportJob struct {
	Slug   string
	Route  string // site path of the page, e.g. /blog/slug/
	Output string // destination PDF path
}

// ExportResult is the outcome of one ExportJob.
type ExportResult struct {
	Slug     string
	Output   string
	Err      error
	Duration time.Duration
}

// ExportSummary counts succeeded and failed exports.
type ExportSummary struct {
	Succeeded int
	Failed    int
}

// Summarize tallies results.
func Summarize(results []ExportResult) ExportSummary {
	var s ExportSummary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}

// Export prints every post of res to cfg.export.dir under the output
// directory. Pages are served from the built output with print CSS
// injected. done, when set, is called once per finished job from the
// worker goroutines and must be safe for concurrent use.
func (b *Builder) Export(ctx context.Context, res *BuildResult, pool Pool, done func(ExportResult)) ([]ExportResult, error) {
	if res == nil || res.Store == nil {
		return nil, ErrNoBuild
	}
	log := logging.For(b.logs, logging.ModuleExport)

	dir := b.cfg.ExportPath()
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	srv, err := startPrintServer(b.cfg.Output.Dir, pipeline.PrintCSS(b.cfg.Export.PageSize))
	if err != nil {
		return nil, err
	}
	defer srv.close()

	jobs := make([]ExportJob, 0, res.Store.Len())
	for _, p := range res.Store.All() {
		jobs = append(jobs, ExportJob{
			Slug:   p.Slug,
			Route:  site.PostURL(p.Slug),
			Output: filepath.Join(dir, p.Slug+".pdf"),
		})
	}

	timeout := b.cfg.ExportTimeout()
	if timeout <= 0 {
		timeout = DefaultExportTimeout
	}
	results := ExportPosts(ctx, pool, srv.baseURL, jobs, timeout, func(r ExportResult) {
		if r.Err != nil {
			log.Warn("export failed", "slug", r.Slug, "error", r.Err)
		} else {
			log.Debug("post exported", "slug", r.Slug, "output", r.Output)
		}
		if done != nil {
			done(r)
		}
	})

	sum := Summarize(results)
	log.Info("export finished", "succeeded", sum.Succeeded, "failed", sum.Failed)
	return results, ctx.Err()
}

// ExportPosts runs jobs concurrently on pool, one exporter per worker.
// Results are returned in job order.
func ExportPosts(ctx context.Context, pool Pool, baseURL string, jobs []ExportJob, timeout time.Duration, done func(ExportResult)) []ExportResult {
	if len(jobs) == 0 {
		return nil
	}
	if done == nil {
		done = func(ExportResult) {}
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]ExportResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp := pool.Acquire()
			if exp == nil {
				// Exporter creation failed, mark remaining jobs as failed
				for idx := range queue {
					results[idx] = ExportResult{Slug: jobs[idx].Slug, Output: jobs[idx].Output, Err: ErrExporterInit}
					done(results[idx])
				}
				return
			}
			defer pool.Release(exp)

			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = ExportResult{Slug: jobs[idx].Slug, Output: jobs[idx].Output, Err: err}
				} else {
					results[idx] = exportOne(ctx, exp, baseURL, jobs[idx], timeout)
				}
				done(results[idx])
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

func exportOne(ctx context.Context, exp PDFExporter, baseURL string, job ExportJob, timeout time.Duration) ExportResult {
	start := time.Now()
	result := ExportResult{Slug: job.Slug, Output: job.Output}

	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := exp.Export(jobCtx, strings.TrimSuffix(baseURL, "/")+job.Route)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	if err := fileutil.WriteFileAtomic(job.Output, data); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	result.Duration = time.Since(start)
	return result
}

// printServer serves the built output on a loopback port for the browser,
// adding print CSS to every HTML page.
type printServer struct {
	baseURL string
	srv     *http.Server
}

func startPrintServer(outputDir, css string) (*printServer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("%w: print server: %v", ErrExporterInit, err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/*", printHandler(outputDir, css))

	ps := &printServer{
		baseURL: "http://" + ln.Addr().String(),
		srv:     &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second},
	}
	go func() { _ = ps.srv.Serve(ln) }()
	return ps, nil
}

func (ps *printServer) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = ps.srv.Shutdown(ctx)
}

// printHandler serves outputDir and injects css into HTML pages.
func printHandler(outputDir, css string) http.HandlerFunc {
	files := http.FileServer(http.Dir(outputDir))
	injector := pipeline.CSSInjection{}

	return func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/") {
			p = path.Join(p, "index.html")
		}
		if !strings.HasSuffix(p, ".html") {
			files.ServeHTTP(w, r)
			return
		}

		full, err := fileutil.SafeJoin(outputDir, strings.TrimPrefix(p, "/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		page, err := os.ReadFile(full) // #nosec G304 -- joined under the output dir
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(injector.InjectCSS(r.Context(), string(page), css)))
	}
}
