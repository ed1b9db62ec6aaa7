// Package site renders the blog into a static output directory.
package site

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/alnah/go-termblog/internal/content"
)

// Route prefixes.
const (
	BlogPrefix = "/blog/"
	TagsPrefix = "/blog/tags/"
)

// RouteKind identifies the page template behind a route.
type RouteKind string

// Route kinds.
const (
	RouteHome     RouteKind = "home"
	RouteAbout    RouteKind = "about"
	RouteBlog     RouteKind = "blog"
	RoutePost     RouteKind = "post"
	RouteTags     RouteKind = "tags"
	RouteTag      RouteKind = "tag"
	RouteNotFound RouteKind = "notfound"
)

// Route is one page of the built site.
type Route struct {
	Path string // URL path, "/blog/<slug>/"
	Kind RouteKind
	Slug string // post routes
	Tag  string // tag routes, normalized
}

// File returns the output file of the route relative to the output root,
// in slash form: directory routes render to index.html.
func (r Route) File() string {
	p := strings.TrimPrefix(r.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return p + "index.html"
	}
	return p
}

// Routes lists every page to prerender: the static pages, one route per
// post and one per normalized tag.
func Routes(store *content.Store) []Route {
	routes := []Route{
		{Path: "/", Kind: RouteHome},
		{Path: "/about/", Kind: RouteAbout},
		{Path: BlogPrefix, Kind: RouteBlog},
		{Path: TagsPrefix, Kind: RouteTags},
		{Path: "/404.html", Kind: RouteNotFound},
	}
	for _, p := range store.All() {
		routes = append(routes, Route{Path: PostURL(p.Slug), Kind: RoutePost, Slug: p.Slug})
	}
	for _, t := range store.AllTags() {
		routes = append(routes, Route{Path: TagURL(t.Normalized), Kind: RouteTag, Tag: t.Normalized})
	}
	return routes
}

// PostURL returns the route of a post.
func PostURL(slug string) string {
	return BlogPrefix + url.PathEscape(slug) + "/"
}

// TagURL returns the route of a tag page.
func TagURL(tag string) string {
	return TagsPrefix + url.PathEscape(TagSegment(tag)) + "/"
}

// TagSegment turns a normalized tag into a single safe path segment.
// Characters that cannot appear in a segment are written as ~XX hex
// escapes, with '~' itself escaped, so distinct tags never share a page.
func TagSegment(tag string) string {
	norm := content.NormalizeTag(tag)
	if norm == "." || norm == ".." {
		return strings.Repeat("~2e", len(norm))
	}

	var b strings.Builder
	for i := 0; i < len(norm); i++ {
		switch c := norm[i]; c {
		case '/', '\\', '?', '#', '%', '~':
			fmt.Fprintf(&b, "~%02x", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// routeFile maps a route to its file under the output root, decoding the
// escaped path back to the on-disk name.
func routeFile(r Route) string {
	f := r.File()
	if decoded, err := url.PathUnescape(f); err == nil {
		f = decoded
	}
	return path.Clean(f)
}
