package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter selects post files by path relative to the posts directory.
type Filter struct {
	Include []string // empty = "*.md"
	Exclude []string
}

// Match reports whether rel is a post. Include patterns match the full
// relative path, so "*.md" only selects top-level files and "**/*.md"
// recurses. Exclude patterns also match the base name.
func (f Filter) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, ".md") {
		return false
	}

	include := f.Include
	if len(include) == 0 {
		include = []string{"*.md"}
	}
	included := false
	for _, pattern := range include {
		if ok, err := doublestar.PathMatch(filepath.ToSlash(pattern), rel); err == nil && ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	base := filepath.Base(rel)
	for _, pattern := range f.Exclude {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.PathMatch(pattern, rel); err == nil && ok {
			return false
		}
		if ok, err := doublestar.PathMatch(pattern, base); err == nil && ok {
			return false
		}
	}
	return true
}

// Store holds every loaded post, newest first.
type Store struct {
	posts  []*Post
	bySlug map[string]*Post
}

// NewStore builds a store from posts, sorting them newest first with ties
// broken by slug.
func NewStore(posts []*Post) *Store {
	sorted := append([]*Post(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].Slug < sorted[j].Slug
	})

	s := &Store{posts: sorted, bySlug: make(map[string]*Post, len(sorted))}
	for _, p := range sorted {
		s.bySlug[p.Slug] = p
	}
	return s
}

// Load reads every post under dir matching filter. A missing directory
// yields an empty store.
func Load(ctx context.Context, dir string, filter Filter, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}

	var posts []*Post
	seen := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return fs.SkipAll
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil || !filter.Match(rel) {
			return nil
		}

		source, err := os.ReadFile(path) // #nosec G304 -- path comes from the walk
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		post, err := ParsePost(path, source, now)
		if err != nil {
			return err
		}
		if prev, dup := seen[post.Slug]; dup {
			return fmt.Errorf("%w: %q in %s and %s", ErrDuplicateSlug, post.Slug, prev, path)
		}
		seen[post.Slug] = path
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStore(posts), nil
}

// All returns every post, newest first.
func (s *Store) All() []*Post { return s.posts }

// Len returns the number of posts.
func (s *Store) Len() int { return len(s.posts) }

// Recent returns at most n of the newest posts.
func (s *Store) Recent(n int) []*Post {
	if n < 0 {
		n = 0
	}
	if n > len(s.posts) {
		n = len(s.posts)
	}
	return s.posts[:n]
}

// BySlug looks up a post.
func (s *Store) BySlug(slug string) (*Post, bool) {
	p, ok := s.bySlug[slug]
	return p, ok
}
