package pdfindex

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/alnah/go-termblog/internal/logging"
)

// Worker limits for concurrent inspection.
const (
	MinWorkers = 1
	MaxWorkers = 8
)

// Index maps PDF files, by slash path relative to the PDF directory, to
// their inspected Document.
type Index struct {
	docs map[string]*Document
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	inspector Inspector
	workers   int
	logger    logging.Logger
}

// WithInspector replaces the default TextInspector.
func WithInspector(i Inspector) Option {
	return func(o *buildOptions) { o.inspector = i }
}

// WithWorkers sets the number of concurrent inspections (clamped 1..8).
// The default is half of GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *buildOptions) { o.workers = n }
}

// WithLogger sets the logger for per-file failures.
func WithLogger(l logging.Logger) Option {
	return func(o *buildOptions) { o.logger = l }
}

// NewIndex builds an index from already inspected documents.
func NewIndex(docs ...*Document) *Index {
	idx := &Index{docs: make(map[string]*Document, len(docs))}
	for _, d := range docs {
		idx.docs[d.File] = d
	}
	return idx
}

// Build inspects every .pdf file under dir. A missing directory yields an
// empty index. A file that cannot be read is kept with its Err set so that
// links to it are reported rather than treated as missing.
func Build(ctx context.Context, dir string, opts ...Option) (*Index, error) {
	o := buildOptions{
		inspector: TextInspector{},
		workers:   ResolveWorkers(0, runtime.GOMAXPROCS(0)),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	files, err := listPDFs(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return NewIndex(), nil
	}

	workers := min(max(o.workers, MinWorkers), MaxWorkers, len(files))
	docs := make([]*Document, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				docs[i] = inspectOne(ctx, o, dir, files[i])
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewIndex(docs...), nil
}

func inspectOne(ctx context.Context, o buildOptions, dir, rel string) *Document {
	doc, err := o.inspector.Inspect(ctx, filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		o.logger.Warn("pdf inspection failed", "file", rel, "error", err)
		return &Document{File: rel, Err: err.Error()}
	}
	doc.File = rel
	o.logger.Debug("pdf inspected", "file", rel, "pages", doc.PageCount)
	return doc
}

// listPDFs returns slash paths of .pdf files under dir, sorted.
func listPDFs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Lookup returns the document for a file identifier.
func (idx *Index) Lookup(file string) (*Document, bool) {
	d, ok := idx.docs[file]
	return d, ok
}

// Len returns the number of indexed files.
func (idx *Index) Len() int { return len(idx.docs) }

// Files returns the indexed file identifiers, sorted.
func (idx *Index) Files() []string {
	files := make([]string, 0, len(idx.docs))
	for f := range idx.docs {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// ResolveWorkers clamps a requested worker count, falling back to half of
// the available procs when n is not positive.
func ResolveWorkers(n, procs int) int {
	if n <= 0 {
		n = procs / 2
	}
	return min(max(n, MinWorkers), MaxWorkers)
}
