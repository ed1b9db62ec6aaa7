package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-termblog/internal/assets"
	"github.com/alnah/go-termblog/internal/content"
	"github.com/alnah/go-termblog/internal/fileutil"
	"github.com/alnah/go-termblog/internal/logging"
	"github.com/alnah/go-termblog/internal/pdfindex"
	"github.com/alnah/go-termblog/internal/pipeline"
)

// Output layout under the output root.
const (
	StaticDir    = "static"
	PDFDir       = "pdfs"
	ManifestFile = "index.json"
	SyntaxCSS    = "syntax.css"
	SitemapFile  = "sitemap.xml"
)

// Sentinel errors for site generation.
var (
	ErrTemplate     = errors.New("template rendering failed")
	ErrMissingPost  = errors.New("post was not rendered")
	ErrUnsafeOutput = errors.New("refusing to clean output directory")
	ErrWriteOutput  = errors.New("failed to write output")
	ErrNilInput     = errors.New("site input is nil")
)

// Options configures a Writer.
type Options struct {
	Info           Info
	OutputDir      string
	Clean          bool // remove OutputDir before writing
	DateFormat     string
	ListDateFormat string
	RecentPosts    int
	SyntaxStyle    string
	Logger         logging.Logger
	Now            func() time.Time
}

// Input is everything a build produced before pages are written.
type Input struct {
	Store     *content.Store
	Posts     map[string]*RenderedPost // by slug
	HomeHTML  string
	AboutHTML string
	PDFDir    string          // source directory of the indexed PDFs
	Index     *pdfindex.Index // nil skips PDF copying
}

// Result summarizes a Write.
type Result struct {
	Routes []Route
	Pages  int
	Assets int
	PDFs   int
}

// Writer renders pages with the loaded template set and writes the site.
type Writer struct {
	opts   Options
	loader assets.Loader
	pages  map[RouteKind]*template.Template
}

// NewWriter parses the template set from loader.
func NewWriter(loader assets.Loader, opts Options) (*Writer, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NoOp()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ts, err := assets.LoadTemplateSet(loader)
	if err != nil {
		return nil, err
	}

	pages := make(map[RouteKind]*template.Template, len(ts.Pages))
	for name, src := range ts.Pages {
		t, err := template.New(assets.LayoutTemplate).Parse(ts.Layout)
		if err != nil {
			return nil, fmt.Errorf("%w: layout: %v", ErrTemplate, err)
		}
		if _, err := t.Parse(src); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
		}
		pages[RouteKind(name)] = t
	}
	return &Writer{opts: opts, loader: loader, pages: pages}, nil
}

// Write renders every route of in.Store and writes pages, static assets,
// the sitemap and the PDF directory with its manifest.
func (w *Writer) Write(ctx context.Context, in *Input) (*Result, error) {
	if in == nil || in.Store == nil {
		return nil, ErrNilInput
	}
	out := w.opts.OutputDir
	if w.opts.Clean {
		if err := cleanDir(out); err != nil {
			return nil, err
		}
	}

	res := &Result{Routes: Routes(in.Store)}
	for _, r := range res.Routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		html, err := w.RenderRoute(r, in)
		if err != nil {
			return nil, err
		}
		if err := w.write(routeFile(r), html); err != nil {
			return nil, err
		}
		res.Pages++
	}

	n, err := w.writeStatic()
	if err != nil {
		return nil, err
	}
	res.Assets = n

	sitemap, err := Sitemap(res.Routes, in.Store, w.opts.Info.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: sitemap: %v", ErrWriteOutput, err)
	}
	if err := w.write(SitemapFile, sitemap); err != nil {
		return nil, err
	}

	if in.Index != nil {
		if res.PDFs, err = w.writePDFs(ctx, in.PDFDir, in.Index); err != nil {
			return nil, err
		}
	}

	w.opts.Logger.Info("site written", "dir", out, "pages", res.Pages, "assets", res.Assets, "pdfs", res.PDFs)
	return res, nil
}

// RenderRoute renders one route to a complete HTML document.
func (w *Writer) RenderRoute(r Route, in *Input) ([]byte, error) {
	data, err := w.pageData(r, in)
	if err != nil {
		return nil, err
	}
	t, ok := w.pages[r.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no template for %s", ErrTemplate, r.Kind)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, assets.LayoutTemplate, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, r.Path, err)
	}
	return buf.Bytes(), nil
}

func (w *Writer) pageData(r Route, in *Input) (*PageData, error) {
	o := w.opts
	data := &PageData{
		Site:        o.Info,
		Description: o.Info.Description,
		Section:     string(r.Kind),
		Year:        o.Now().Year(),
	}
	if o.Info.BaseURL != "" && r.Kind != RouteNotFound {
		data.Canonical = strings.TrimSuffix(o.Info.BaseURL, "/") + r.Path
	}

	switch r.Kind {
	case RouteHome:
		data.Content = template.HTML(in.HomeHTML) // #nosec G203 -- rendered from local markdown
		data.Posts = summarizeAll(in.Store.Recent(o.RecentPosts), o.ListDateFormat)

	case RouteAbout:
		data.Title = "about"
		data.Content = template.HTML(in.AboutHTML) // #nosec G203 -- rendered from local markdown

	case RouteBlog:
		data.Title = "blog"
		data.Posts = summarizeAll(in.Store.All(), o.ListDateFormat)

	case RoutePost:
		rp, ok := in.Posts[r.Slug]
		if !ok || rp == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingPost, r.Slug)
		}
		data.Section = string(RouteBlog)
		data.Title = rp.Title
		if rp.Description != "" {
			data.Description = rp.Description
		}
		data.Post = &PostPage{
			PostSummary: summarize(rp.Post, o.DateFormat),
			HTML:        template.HTML(rp.HTML), // #nosec G203 -- rendered from local markdown
			TOC:         rp.TOC,
			ExportURL:   rp.ExportURL,
		}

	case RouteTags:
		data.Title = "tags"
		for _, t := range in.Store.AllTags() {
			data.Tags = append(data.Tags, TagSummary{Name: t.Tag, URL: TagURL(t.Normalized), Count: t.Count})
		}

	case RouteTag:
		name, ok := in.Store.TagDisplayName(r.Tag)
		if !ok {
			name = r.Tag
		}
		data.Section = string(RouteTags)
		data.Title = "#" + name
		data.Tag = name
		data.Posts = summarizeAll(in.Store.PostsByTag(r.Tag), o.ListDateFormat)

	case RouteNotFound:
		data.Title = "not found"
	}
	return data, nil
}

func (w *Writer) writeStatic() (int, error) {
	names, err := w.loader.StaticNames()
	if err != nil {
		return 0, err
	}
	for _, name := range names {
		data, err := w.loader.LoadStatic(name)
		if err != nil {
			return 0, err
		}
		if err := w.write(StaticDir+"/"+name, data); err != nil {
			return 0, err
		}
	}

	css, err := pipeline.SyntaxCSS(w.opts.SyntaxStyle)
	if err != nil {
		return 0, err
	}
	if err := w.write(StaticDir+"/"+SyntaxCSS, []byte(css)); err != nil {
		return 0, err
	}
	return len(names) + 1, nil
}

// writePDFs copies every indexed document and writes the manifest.
func (w *Writer) writePDFs(ctx context.Context, srcDir string, idx *pdfindex.Index) (int, error) {
	copied := 0
	for _, f := range idx.Files() {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		src, err := fileutil.SafeJoin(srcDir, f)
		if err != nil {
			return copied, err
		}
		dst, err := fileutil.SafeJoin(filepath.Join(w.opts.OutputDir, PDFDir), f)
		if err != nil {
			return copied, err
		}
		if err := fileutil.CopyFile(src, dst); err != nil {
			return copied, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		copied++
	}

	manifest, err := idx.Manifest().JSON()
	if err != nil {
		return copied, fmt.Errorf("%w: manifest: %v", ErrWriteOutput, err)
	}
	if err := w.write(PDFDir+"/"+ManifestFile, manifest); err != nil {
		return copied, err
	}
	return copied, nil
}

// write stores data at a slash path under the output root.
func (w *Writer) write(rel string, data []byte) error {
	dst, err := fileutil.SafeJoin(w.opts.OutputDir, rel)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(dst, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// cleanDir removes the output directory, refusing the working directory,
// filesystem roots and the home directory.
func cleanDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeOutput, err)
	}
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	if dir == "" || abs == filepath.Dir(abs) || abs == cwd || abs == home {
		return fmt.Errorf("%w: %q", ErrUnsafeOutput, dir)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
