package termblog

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-termblog/internal/assets"
	"github.com/alnah/go-termblog/internal/config"
	"github.com/alnah/go-termblog/internal/content"
	"github.com/alnah/go-termblog/internal/logging"
	"github.com/alnah/go-termblog/internal/pdfindex"
	"github.com/alnah/go-termblog/internal/pipeline"
	"github.com/alnah/go-termblog/internal/site"
)

// Standalone pages read from the content root.
const (
	HomeFile  = "home.md"
	AboutFile = "about.md"
)

// Heading levels listed in a post's table of contents.
const (
	tocMinLevel = 2
	tocMaxLevel = 3
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = pipeline.Preprocessor{}
	_ pipeline.HTMLConverter        = (*pipeline.Renderer)(nil)
	_ pipeline.CSSInjector          = pipeline.CSSInjection{}
	_ pdfindex.Inspector            = pdfindex.TextInspector{}
	_ assets.Loader                 = (*assets.Resolver)(nil)
)

// Builder turns the content directory into a site.
// Create with New; a Builder is safe to reuse for successive builds.
type Builder struct {
	cfg       *config.Config
	loader    assets.Loader
	renderer  pipeline.HTMLConverter
	inspector pdfindex.Inspector
	logs      logging.Provider
	log       logging.Logger
	now       func() time.Time
	workers   int
}

// BuildResult is what a build produced.
type BuildResult struct {
	Store    *content.Store
	Posts    map[string]*site.RenderedPost
	Index    *pdfindex.Index
	Site     *site.Result
	Duration time.Duration
}

// New creates a Builder for cfg. The configuration is validated, the asset
// loader resolved and the highlight style checked up front so that a bad
// config fails before any file is touched.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:       cfg,
		renderer:  pipeline.NewRenderer(),
		inspector: pdfindex.TextInspector{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = logging.For(b.logs, logging.ModuleBuild)

	if b.loader == nil {
		resolver, err := assets.NewResolver(cfg.Assets.BasePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetDir, err)
		}
		b.loader = resolver
	}
	if _, err := pipeline.SyntaxCSS(b.syntaxStyle()); err != nil {
		return nil, err
	}
	if b.workers <= 0 {
		b.workers = runtime.GOMAXPROCS(0)
	}
	return b, nil
}

// Config returns the builder configuration.
func (b *Builder) Config() *config.Config { return b.cfg }

// Build loads, renders and writes the whole site.
// Recovers from internal panics so a bad post cannot crash a watch loop.
func (b *Builder) Build(ctx context.Context) (res *BuildResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	start := time.Now()

	store, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := b.renderPosts(ctx, store)
	if err != nil {
		return nil, err
	}
	home, err := b.renderPage(ctx, HomeFile)
	if err != nil {
		return nil, err
	}
	about, err := b.renderPage(ctx, AboutFile)
	if err != nil {
		return nil, err
	}
	idx, err := b.Index(ctx)
	if err != nil {
		return nil, err
	}

	writer, err := site.NewWriter(b.loader, site.Options{
		Info: site.Info{
			Title:       b.cfg.Site.Title,
			Description: b.cfg.Site.Description,
			Author:      b.cfg.Site.Author,
			BaseURL:     b.cfg.Site.BaseURL,
		},
		OutputDir:      b.cfg.Output.Dir,
		Clean:          b.cfg.Output.Clean,
		DateFormat:     b.cfg.Site.DateFormat,
		ListDateFormat: b.cfg.Site.ListDateFormat,
		RecentPosts:    b.cfg.Site.RecentPosts,
		SyntaxStyle:    b.syntaxStyle(),
		Logger:         b.log,
		Now:            b.now,
	})
	if err != nil {
		return nil, err
	}

	written, err := writer.Write(ctx, &site.Input{
		Store:     store,
		Posts:     posts,
		HomeHTML:  home,
		AboutHTML: about,
		PDFDir:    b.cfg.PDFPath(),
		Index:     idx,
	})
	if err != nil {
		return nil, err
	}

	res = &BuildResult{
		Store:    store,
		Posts:    posts,
		Index:    idx,
		Site:     written,
		Duration: time.Since(start),
	}
	b.log.Info("site built",
		"posts", store.Len(),
		"pages", written.Pages,
		"pdfs", written.PDFs,
		"output", b.cfg.Output.Dir,
		"duration", res.Duration.Round(time.Millisecond).String(),
	)
	return res, nil
}

// Load reads the posts selected by content.include and content.exclude.
func (b *Builder) Load(ctx context.Context) (*content.Store, error) {
	dir := b.cfg.PostsPath()
	store, err := content.Load(ctx, dir, content.Filter{
		Include: b.cfg.Content.Include,
		Exclude: b.cfg.Content.Exclude,
	}, b.now)
	if err != nil {
		return nil, err
	}
	if store.Len() == 0 {
		b.log.Warn("no posts found", "dir", dir)
	}
	return store, nil
}

// Index inspects the PDF directory.
func (b *Builder) Index(ctx context.Context) (*pdfindex.Index, error) {
	return pdfindex.Build(ctx, b.cfg.PDFPath(),
		pdfindex.WithInspector(b.inspector),
		pdfindex.WithLogger(logging.For(b.logs, logging.ModulePDFIndex)),
	)
}

// renderPosts renders every post concurrently. The first failure in post
// order is returned.
func (b *Builder) renderPosts(ctx context.Context, store *content.Store) (map[string]*site.RenderedPost, error) {
	all := store.All()
	rendered := make([]*site.RenderedPost, len(all))
	errs := make([]error, len(all))

	workers := min(b.workers, len(all))
	jobs := make(chan int, len(all))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				rendered[i], errs[i] = b.renderPost(ctx, all[i])
			}
		}()
	}
	for i := range all {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := firstError(errs); err != nil {
		return nil, err
	}

	posts := make(map[string]*site.RenderedPost, len(all))
	for _, p := range rendered {
		posts[p.Slug] = p
	}
	return posts, nil
}

func (b *Builder) renderPost(ctx context.Context, p *content.Post) (*site.RenderedPost, error) {
	html, err := b.renderMarkdown(ctx, p.Source, p.Body)
	if err != nil {
		return nil, err
	}
	b.log.Debug("post rendered", "slug", p.Slug)
	return &site.RenderedPost{
		Post:      p,
		HTML:      html,
		TOC:       pipeline.Headings(html, tocMinLevel, tocMaxLevel),
		ExportURL: b.exportURL(p.Slug),
	}, nil
}

// renderPage renders a standalone page from the content root. A missing
// file renders as empty.
func (b *Builder) renderPage(ctx context.Context, name string) (string, error) {
	page, err := b.loadPage(name)
	if err != nil || page == nil {
		return "", err
	}
	return b.renderMarkdown(ctx, page.Source, page.Body)
}

func (b *Builder) renderMarkdown(ctx context.Context, src string, body []byte) (string, error) {
	html, err := b.renderer.ToHTML(ctx, string(body))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %s: %v", ErrRender, src, err)
	}
	html, err = pipeline.RewriteLinks(html, pipeline.LinkRules{
		Dir:        b.contentRel(filepath.Dir(src)),
		PostPrefix: site.BlogPrefix,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, src, err)
	}
	return html, nil
}

// contentRel returns dir as a slash path relative to the content root, or
// "" when it lies outside.
func (b *Builder) contentRel(dir string) string {
	rel, err := filepath.Rel(b.cfg.Content.Dir, dir)
	if err != nil {
		return ""
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return ""
	}
	return rel
}

// exportURL is the site path of a post's exported PDF, empty when export
// is disabled.
func (b *Builder) exportURL(slug string) string {
	if !b.cfg.Export.Enabled {
		return ""
	}
	return "/" + path.Join(filepath.ToSlash(b.cfg.Export.Dir), slug+".pdf")
}

func (b *Builder) syntaxStyle() string {
	if b.cfg.Highlight.Style == "" {
		return pipeline.DefaultSyntaxStyle
	}
	return b.cfg.Highlight.Style
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
