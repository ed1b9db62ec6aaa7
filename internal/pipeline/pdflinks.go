package pipeline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-termblog/internal/pdflink"
)

// PDFLinkRef is one pdf: link found in a markdown source.
type PDFLinkRef struct {
	Raw     string // destination as written
	Address pdflink.Address
	Line    int // 1-based line of the link text
}

var linkParser = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote)).Parser()

// ExtractPDFLinks lists every pdf: link in markdown, in document order.
// Links inside code spans and code blocks are not links and are skipped.
func ExtractPDFLinks(markdown []byte) []PDFLinkRef {
	source := bytes.ReplaceAll(markdown, []byte("\r\n"), []byte("\n"))
	doc := linkParser.Parse(text.NewReader(source))

	var refs []PDFLinkRef
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(link.Destination)
		if !strings.HasPrefix(dest, pdflink.Scheme) {
			return ast.WalkContinue, nil
		}
		refs = append(refs, PDFLinkRef{
			Raw:     dest,
			Address: pdflink.Decode(dest),
			Line:    lineOf(source, nodeOffset(link)),
		})
		return ast.WalkSkipChildren, nil
	})
	return refs
}

// nodeOffset returns the source offset of the first text under n, or of
// the enclosing block when the link has no text.
func nodeOffset(n ast.Node) int {
	offset := -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			offset = t.Segment.Start
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if offset >= 0 {
		return offset
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == ast.TypeBlock && p.Lines().Len() > 0 {
			return p.Lines().At(0).Start
		}
	}
	return 0
}

func lineOf(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
