// Package pdfindex inspects the PDF documents referenced by posts.
//
// An Index maps each document, by its slash path relative to the PDF
// directory, to its page count and per-page text. The index feeds the
// pdfs/index.json manifest, the link checker and the viewer panel pages.
package pdfindex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrInspect indicates a PDF could not be read.
var ErrInspect = errors.New("failed to inspect PDF")

// Document is what the index knows about one PDF.
// Pages[i] holds the plain text of page i+1; it is empty for pages without
// extractable text.
type Document struct {
	File      string   `json:"file"`
	PageCount int      `json:"pages"`
	Pages     []string `json:"-"`
	Err       string   `json:"error,omitempty"`
}

// PageText returns the text of a 1-based page, or "" when out of range.
func (d *Document) PageText(page int) string {
	if page < 1 || page > len(d.Pages) {
		return ""
	}
	return d.Pages[page-1]
}

// HasText reports whether any page carries extractable text.
func (d *Document) HasText() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// Inspector reads page count and page text from a PDF file.
type Inspector interface {
	Inspect(ctx context.Context, path string) (*Document, error)
}

// TextInspector is the Inspector backed by github.com/ledongthuc/pdf.
type TextInspector struct{}

// Compile-time interface check.
var _ Inspector = TextInspector{}

// Inspect opens path and extracts the text of every page. Pages whose text
// cannot be extracted are left empty rather than failing the document.
func (TextInspector) Inspect(ctx context.Context, path string) (doc *Document, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path) // #nosec G304 -- path comes from the PDF directory walk
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInspect, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInspect, err)
	}

	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %s: malformed document: %v", ErrInspect, path, r)
		}
	}()

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInspect, path, err)
	}

	count := reader.NumPage()
	doc = &Document{PageCount: count, Pages: make([]string, count)}
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		doc.Pages[i-1] = strings.TrimSpace(text)
	}
	return doc, nil
}
