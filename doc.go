// Package termblog builds a static personal blog from markdown posts and
// PDF documents.
//
// # Quick Start
//
// Load a configuration, create a builder, and build the site:
//
//	cfg, err := config.LoadConfig("termblog")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := termblog.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := b.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Site.Pages, "pages written")
//
// # Build Pipeline
//
// A build follows these stages:
//
//  1. Post loading (frontmatter, include/exclude globs, newest first)
//  2. Markdown to HTML via Goldmark (GFM, footnotes, chroma highlighting,
//     pdf: links rendered as viewer anchors)
//  3. Link rewriting (relative .md and .pdf links to site routes)
//  4. PDF indexing (page counts and page text via ledongthuc/pdf)
//  5. Page rendering with html/template and the embedded or custom assets
//
// # PDF Links
//
// Posts reference documents with pdf:<file>#page=<n>&highlight=<text>.
// Check reports links whose file is missing or unreadable, whose page is
// out of range, or whose highlight phrase does not appear on that page.
//
// # Export
//
// Export prints every post page to PDF through headless Chrome (go-rod).
// ExporterPool holds one browser per worker, created on first use:
//
//	pool := termblog.NewExporterPool(termblog.ResolvePoolSize(0), func() termblog.PDFExporter {
//	    return termblog.NewRodExporter(30 * time.Second)
//	})
//	defer pool.Close()
//
//	results, err := b.Export(ctx, res, pool, nil)
//
// # Browser Requirements
//
// PDF export requires Chrome/Chromium. go-rod downloads a managed Chromium
// on first run (~/.cache/rod/browser/). In containers and CI set
// ROD_NO_SANDBOX=1; use ROD_BROWSER_BIN to point at a specific binary.
package termblog
