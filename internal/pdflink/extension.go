package pdflink

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// rendererPriority places the link renderer ahead of goldmark's default
// HTML renderer (priority 1000).
const rendererPriority = 500

// Extension renders pdf: links as viewer-aware anchors.
//
//	md := goldmark.New(goldmark.WithExtensions(pdflink.Extension))
var Extension goldmark.Extender = &extension{}

type extension struct{}

// Extend registers the link renderer.
func (e *extension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewLinkRenderer(), rendererPriority),
	))
}

// LinkRenderer renders ast.Link nodes. pdf: destinations become anchors
// carrying the decoded address; every other link renders the way goldmark's
// HTML renderer does.
type LinkRenderer struct {
	html.Config
}

// NewLinkRenderer creates a LinkRenderer with the given HTML options.
func NewLinkRenderer(opts ...html.Option) *LinkRenderer {
	r := &LinkRenderer{Config: html.NewConfig()}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

// SetOption receives renderer options (XHTML, unsafe, ...) from goldmark.
func (r *LinkRenderer) SetOption(name renderer.OptionName, value any) {
	r.Config.SetOption(name, value)
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *LinkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
}

func (r *LinkRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)

	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	if IsLink(string(n.Destination)) {
		title := string(util.UnescapePunctuations(n.Title))
		if err := WriteAnchorOpen(w, Decode(string(n.Destination)), title); err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, n.Title)
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, html.LinkAttributeFilter)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}
