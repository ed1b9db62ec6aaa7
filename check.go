package termblog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-termblog/internal/content"
	"github.com/alnah/go-termblog/internal/pdfindex"
	"github.com/alnah/go-termblog/internal/pipeline"
)

// CheckResult lists the pdf: links found in the content and the ones that
// do not resolve.
type CheckResult struct {
	Links    []pdfindex.Link
	Problems []pdfindex.Problem
	Index    *pdfindex.Index
}

// OK reports whether every link resolved.
func (r *CheckResult) OK() bool { return len(r.Problems) == 0 }

// Check verifies every pdf: link in the posts and standalone pages against
// the PDF directory. Nothing is written.
func (b *Builder) Check(ctx context.Context) (*CheckResult, error) {
	store, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := b.Index(ctx)
	if err != nil {
		return nil, err
	}

	var links []pdfindex.Link
	for _, p := range store.All() {
		links = append(links, postLinks(p, p.Slug)...)
	}
	for _, name := range []string{HomeFile, AboutFile} {
		page, err := b.loadPage(name)
		if err != nil {
			return nil, err
		}
		if page != nil {
			links = append(links, postLinks(page, name)...)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	problems := pdfindex.Check(links, idx)
	for _, p := range problems {
		b.log.Debug("broken pdf link", "post", p.Post, "line", p.Line, "kind", string(p.Kind))
	}
	b.log.Info("pdf links checked", "links", len(links), "problems", len(problems))
	return &CheckResult{Links: links, Problems: problems, Index: idx}, nil
}

// loadPage parses a standalone page, or returns nil when it does not exist.
func (b *Builder) loadPage(name string) (*content.Post, error) {
	src := filepath.Join(b.cfg.Content.Dir, name)
	source, err := os.ReadFile(src) // #nosec G304 -- fixed name under the content dir
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	return content.ParsePost(src, source, b.now)
}

// postLinks extracts the pdf: links of p with lines counted in the source
// file, frontmatter included.
func postLinks(p *content.Post, label string) []pdfindex.Link {
	refs := pipeline.ExtractPDFLinks(p.Body)
	links := make([]pdfindex.Link, len(refs))
	for i, ref := range refs {
		links[i] = pdfindex.Link{
			Post:    label,
			Source:  p.Source,
			Line:    ref.Line + p.BodyLine - 1,
			Raw:     ref.Raw,
			Address: ref.Address,
		}
	}
	return links
}
