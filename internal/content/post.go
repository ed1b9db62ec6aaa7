// Package content loads markdown posts and their frontmatter.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-termblog/internal/dateutil"
)

// Sentinel errors for content loading.
var (
	ErrFrontmatter   = errors.New("invalid frontmatter")
	ErrDuplicateSlug = errors.New("duplicate post slug")
)

// PostMeta is the frontmatter of a post plus its slug.
type PostMeta struct {
	Slug        string
	Title       string
	Date        time.Time
	RawDate     string // as written, empty when the date was defaulted
	Description string
	Tags        []string
}

// Post is a parsed markdown post.
type Post struct {
	PostMeta
	Body     []byte // markdown without frontmatter
	BodyLine int    // 1-based line of Source where Body starts
	Source   string // path of the .md file
}

// HasTag reports whether the post carries tag, compared normalized.
func (p *Post) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range p.Tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

// ParsePost parses one markdown file. now supplies the date of posts
// without one.
func ParsePost(path string, source []byte, now func() time.Time) (*Post, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFrontmatter, path, err)
	}

	slug := SlugFromPath(path)
	post := &Post{
		PostMeta: PostMeta{
			Slug:        slug,
			Title:       strings.TrimSpace(fm.Title),
			RawDate:     strings.TrimSpace(fm.Date),
			Description: strings.TrimSpace(fm.Description),
			Tags:        cleanTags(fm.Tags),
		},
		Body:     body,
		BodyLine: bodyLine(source, body),
		Source:   path,
	}
	if post.Title == "" {
		post.Title = slug
	}

	if post.RawDate == "" {
		post.Date = now()
	} else {
		post.Date, err = dateutil.Parse(post.RawDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFrontmatter, path, err)
		}
	}
	return post, nil
}

// bodyLine locates body inside source. Frontmatter parsers may copy the
// remainder, so it is matched by content.
func bodyLine(source, body []byte) int {
	if len(body) == 0 || !bytes.HasSuffix(source, body) {
		return 1
	}
	return bytes.Count(source[:len(source)-len(body)], []byte("\n")) + 1
}

// SlugFromPath returns the file name without its .md extension.
func SlugFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
