package site

import (
	"html/template"
	"time"

	"github.com/alnah/go-termblog/internal/content"
	"github.com/alnah/go-termblog/internal/dateutil"
	"github.com/alnah/go-termblog/internal/pipeline"
)

// Info is the site-wide metadata available to every template.
type Info struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
}

// PageData is the data passed to the layout and page templates.
type PageData struct {
	Site        Info
	Title       string // empty on the home page
	Description string
	Section     string // highlighted navigation entry
	Canonical   string
	Year        int
	Content     template.HTML // rendered home.md or about.md
	Posts       []PostSummary
	Post        *PostPage
	Tags        []TagSummary
	Tag         string // display name on tag pages
}

// TagLink links to a tag page.
type TagLink struct {
	Name string
	URL  string
}

// TagSummary is one entry of the tag cloud.
type TagSummary struct {
	Name  string
	URL   string
	Count int
}

// PostSummary is a post in a list.
type PostSummary struct {
	Slug        string
	Title       string
	URL         string
	Date        string
	ISODate     string
	Description string
	Tags        []TagLink
}

// PostPage is the data of a post page.
type PostPage struct {
	PostSummary
	HTML      template.HTML
	TOC       []pipeline.Heading
	ExportURL string
}

// RenderedPost is a post whose markdown has been rendered.
type RenderedPost struct {
	*content.Post
	HTML      string
	TOC       []pipeline.Heading
	ExportURL string // empty when the post was not exported
}

func summarize(p *content.Post, dateFormat string) PostSummary {
	date, err := dateutil.Format(p.Date, dateFormat)
	if err != nil {
		date = p.Date.Format(time.DateOnly)
	}
	tags := make([]TagLink, 0, len(p.Tags))
	seen := make(map[string]bool, len(p.Tags))
	for _, t := range p.Tags {
		norm := content.NormalizeTag(t)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		tags = append(tags, TagLink{Name: t, URL: TagURL(norm)})
	}
	return PostSummary{
		Slug:        p.Slug,
		Title:       p.Title,
		URL:         PostURL(p.Slug),
		Date:        date,
		ISODate:     p.Date.Format(time.DateOnly),
		Description: p.Description,
		Tags:        tags,
	}
}

func summarizeAll(posts []*content.Post, dateFormat string) []PostSummary {
	out := make([]PostSummary, len(posts))
	for i, p := range posts {
		out[i] = summarize(p, dateFormat)
	}
	return out
}
