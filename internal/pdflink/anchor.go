package pdflink

import (
	"io"
	"strconv"
	"strings"
)

// Anchor markup contract shared with the browser script.
const (
	LinkClass     = "pdf-link"
	AttrFile      = "data-pdf-file"
	AttrPage      = "data-pdf-page"
	AttrHighlight = "data-pdf-highlight"
)

// attrEscaper escapes values placed inside double-quoted HTML attributes.
var attrEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`"`, "&quot;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// EscapeAttr escapes s for use inside a double-quoted HTML attribute.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// DefaultTitle is the tooltip used when the author gave no link title.
func DefaultTitle(a Address) string {
	return "Open " + a.File
}

// WriteAnchorOpen writes the opening <a> tag for a PDF link.
// The href is the raw document path; the address travels in data attributes.
func WriteAnchorOpen(w io.Writer, a Address, title string) error {
	if title == "" {
		title = DefaultTitle(a)
	}

	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(EscapeAttr(a.Href()))
	b.WriteString(`" class="` + LinkClass + `" ` + AttrFile + `="`)
	b.WriteString(EscapeAttr(a.File))
	b.WriteString(`" ` + AttrPage + `="`)
	b.WriteString(strconv.Itoa(a.normalizedPage()))
	b.WriteString(`" ` + AttrHighlight + `="`)
	b.WriteString(EscapeAttr(a.Highlight))
	b.WriteString(`" title="`)
	b.WriteString(EscapeAttr(title))
	b.WriteString(`">`)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAnchor writes a complete anchor around already-rendered inner HTML.
func RenderAnchor(w io.Writer, a Address, title, inner string) error {
	if err := WriteAnchorOpen(w, a, title); err != nil {
		return err
	}
	if _, err := io.WriteString(w, inner); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</a>")
	return err
}
