package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Heading is a heading with an id in rendered HTML.
type Heading struct {
	Level int
	ID    string
	Text  string
}

var (
	headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
)

// Headings returns the headings between minLevel and maxLevel that carry an
// id, in document order. Post pages list them as a table of contents.
func Headings(htmlContent string, minLevel, maxLevel int) []Heading {
	var out []Heading
	for _, m := range headingPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minLevel || level > maxLevel {
			continue
		}
		text := strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(m[3], "")))
		if text == "" {
			continue
		}
		out = append(out, Heading{Level: level, ID: html.UnescapeString(m[2]), Text: text})
	}
	return out
}
