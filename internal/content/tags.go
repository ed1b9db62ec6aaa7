package content

import (
	"regexp"
	"sort"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeTag lower-cases and trims tag and joins its words with '-'.
// "Machine Learning" and "machine-learning" share one tag page.
func NormalizeTag(tag string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(tag)), "-")
}

// TagCount is one entry of the tag cloud.
type TagCount struct {
	Tag        string // casing of the first occurrence
	Normalized string
	Count      int
}

// AllTags counts posts per normalized tag, most used first, ties by name.
// A post listing the same tag twice counts once.
func (s *Store) AllTags() []TagCount {
	index := make(map[string]int)
	var tags []TagCount

	for _, p := range s.posts {
		counted := make(map[string]bool)
		for _, t := range p.Tags {
			norm := NormalizeTag(t)
			if norm == "" || counted[norm] {
				continue
			}
			counted[norm] = true
			if i, ok := index[norm]; ok {
				tags[i].Count++
				continue
			}
			index[norm] = len(tags)
			tags = append(tags, TagCount{Tag: t, Normalized: norm, Count: 1})
		}
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Normalized < tags[j].Normalized
	})
	return tags
}

// PostsByTag returns the posts carrying tag, newest first.
func (s *Store) PostsByTag(tag string) []*Post {
	var out []*Post
	for _, p := range s.posts {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// TagDisplayName returns the casing tag was first written with.
func (s *Store) TagDisplayName(tag string) (string, bool) {
	want := NormalizeTag(tag)
	for _, p := range s.posts {
		for _, t := range p.Tags {
			if NormalizeTag(t) == want {
				return t, true
			}
		}
	}
	return "", false
}
