package site

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/alnah/go-termblog/internal/content"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders sitemap.xml for routes. Locations are absolute when
// baseURL is set, site-relative otherwise. The 404 page is not listed.
func Sitemap(routes []Route, store *content.Store, baseURL string) ([]byte, error) {
	base := strings.TrimSuffix(baseURL, "/")
	set := urlSet{XMLNS: sitemapNS}
	for _, r := range routes {
		if r.Kind == RouteNotFound {
			continue
		}
		u := sitemapURL{Loc: base + r.Path}
		if r.Kind == RoutePost {
			if p, ok := store.BySlug(r.Slug); ok {
				u.LastMod = p.Date.UTC().Format(time.DateOnly)
			}
		}
		set.URLs = append(set.URLs, u)
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}
