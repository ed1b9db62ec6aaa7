package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Placeholders for ==mark== spans, in the Unicode private use area so they
// survive goldmark untouched. ConvertMarkPlaceholders turns them into
// <mark> after rendering.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	markPattern        = regexp.MustCompile(`==([^=\n](?:.*?[^=\n])?)==`)
	fenceOpen          = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

// MarkdownPreprocessor rewrites markdown before rendering.
type MarkdownPreprocessor interface {
	Process(ctx context.Context, content string) string
}

// Preprocessor is the default MarkdownPreprocessor.
type Preprocessor struct{}

// Process normalizes line endings, converts ==text== outside code fences to
// mark placeholders and compresses runs of blank lines.
// A cancelled context returns content unchanged.
func (Preprocessor) Process(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = convertMarks(content)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertMarks replaces ==text== with placeholders line by line, leaving
// fenced code blocks alone.
func convertMarks(content string) string {
	lines := strings.Split(content, "\n")
	fence := ""
	for i, line := range lines {
		if fence != "" {
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}
		if m := fenceOpen.FindStringSubmatch(line); m != nil {
			fence = m[1]
			continue
		}
		lines[i] = markPattern.ReplaceAllString(line, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	}
	return strings.Join(lines, "\n")
}

// closesFence reports whether line is a closing fence for an opening run
// of fence characters.
func closesFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(fence) {
		return false
	}
	return strings.Trim(trimmed, fence[:1]) == ""
}

// ConvertMarkPlaceholders turns mark placeholders into <mark> elements.
func ConvertMarkPlaceholders(html string) string {
	return strings.NewReplacer(MarkStartPlaceholder, "<mark>", MarkEndPlaceholder, "</mark>").Replace(html)
}
