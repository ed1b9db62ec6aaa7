package pipeline

import (
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-termblog/internal/fileutil"
	"github.com/alnah/go-termblog/internal/pdflink"
)

// LinkRules says how relative links in a rendered post map to site routes.
type LinkRules struct {
	Dir        string // slash path of the source file's directory, relative to the content root
	PostPrefix string // route prefix of posts, default "/blog/"
}

// RewriteLinks rewrites relative hrefs and image sources in a rendered
// fragment or document:
//   - "other-post.md#intro" becomes "/blog/other-post/#intro"
//   - "pdfs/report.pdf" or "../pdfs/report.pdf" becomes "/pdfs/report.pdf"
//
// URLs, fragments and absolute paths are left alone, as is any path that
// resolves outside the content root.
func RewriteLinks(htmlContent string, rules LinkRules) (string, error) {
	if rules.PostPrefix == "" {
		rules.PostPrefix = "/blog/"
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	walkElements(doc, func(n *html.Node) {
		switch n.DataAtom {
		case atom.A:
			rewriteAttr(n, "href", rules)
		case atom.Img:
			rewriteAttr(n, "src", rules)
		}
	})
	return renderHTML(doc, isFragment)
}

func rewriteAttr(n *html.Node, key string, rules LinkRules) {
	for i, attr := range n.Attr {
		if attr.Key != key {
			continue
		}
		if rewritten, ok := rewriteTarget(attr.Val, rules); ok {
			n.Attr[i].Val = rewritten
		}
	}
}

func rewriteTarget(target string, rules LinkRules) (string, bool) {
	if target == "" || strings.HasPrefix(target, "#") || strings.HasPrefix(target, "/") || fileutil.IsURL(target) {
		return "", false
	}

	p, suffix := target, ""
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		p, suffix = target[:i], target[i:]
	}
	if p == "" {
		return "", false
	}

	resolved := path.Clean(p)
	if !strings.HasPrefix(resolved, "pdfs/") {
		resolved = path.Join(rules.Dir, resolved)
	}
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return "", false
	}

	switch {
	case strings.HasSuffix(resolved, ".md"):
		slug := strings.TrimSuffix(path.Base(resolved), ".md")
		return rules.PostPrefix + slug + "/" + suffix, true
	case strings.HasPrefix(resolved, "pdfs/"):
		return pdflink.ResourcePrefix + strings.TrimPrefix(resolved, "pdfs/") + suffix, true
	}
	return "", false
}

// parseHTML parses a full document or, when content does not start with a
// doctype or <html>, a body fragment wrapped in a document node.
func parseHTML(content string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders doc; fragments render their children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}
