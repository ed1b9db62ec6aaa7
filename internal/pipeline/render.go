package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-termblog/internal/pdflink"
)

// ErrHTMLConversion indicates markdown rendering failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Code block markup shared with static/copy.js.
const (
	CodeBlockClass  = "code-block-wrapper"
	CopyButtonClass = "copy-button"
)

const copyButton = `<button type="button" class="` + CopyButtonClass + `" aria-label="Copy code">` +
	`<svg class="copy-icon" xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><rect x="9" y="9" width="13" height="13" rx="2" ry="2"></rect><path d="M5 15H4a2 2 0 0 1-2-2V4a2 2 0 0 1 2-2h9a2 2 0 0 1 2 2v1"></path></svg>` +
	`<svg class="check-icon" xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><polyline points="20 6 9 17 4 12"></polyline></svg>` +
	`</button>`

// HTMLConverter renders markdown to an HTML fragment.
type HTMLConverter interface {
	ToHTML(ctx context.Context, markdown string) (string, error)
}

// Renderer is the goldmark-backed HTMLConverter used for posts and pages.
type Renderer struct {
	md  goldmark.Markdown
	pre MarkdownPreprocessor
}

// NewRenderer creates a Renderer. Code is highlighted with chroma CSS
// classes; SyntaxCSS produces the matching stylesheet.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
				highlighting.WithWrapperRenderer(wrapCodeBlock),
			),
			pdflink.Extension,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)
	return &Renderer{md: md, pre: Preprocessor{}}
}

// ToHTML preprocesses and renders markdown. goldmark has no context
// support, so rendering runs in a goroutine raced against ctx.
func (r *Renderer) ToHTML(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		source := r.pre.Process(ctx, markdown)
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(source), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: ConvertMarkPlaceholders(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// wrapCodeBlock surrounds fenced code with the copy button container.
// Blocks chroma could not highlight (unknown or missing language) arrive
// without their own <pre>, so the wrapper supplies one.
func wrapCodeBlock(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="` + CodeBlockClass + `">`)
		_, _ = w.WriteString(copyButton)
		if !c.Highlighted() {
			_, _ = w.WriteString(`<pre class="chroma"><code`)
			if lang, ok := c.Language(); ok && len(lang) > 0 {
				_, _ = w.WriteString(` class="language-` + html.EscapeString(string(lang)) + `"`)
			}
			_, _ = w.WriteString(">")
		}
		return
	}
	if !c.Highlighted() {
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
}
