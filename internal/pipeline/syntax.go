package pipeline

import (
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultSyntaxStyle is the chroma style used when none is configured.
const DefaultSyntaxStyle = "monokai"

// ErrUnknownStyle is returned for a chroma style that does not exist.
var ErrUnknownStyle = errors.New("unknown highlight style")

// SyntaxStyles lists the registered chroma style names.
func SyntaxStyles() []string {
	return styles.Names()
}

// SyntaxCSS returns the stylesheet for code rendered with chroma classes.
func SyntaxCSS(style string) (string, error) {
	if style == "" {
		style = DefaultSyntaxStyle
	}
	s, ok := styles.Registry[strings.ToLower(style)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}

	var b strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&b, s); err != nil {
		return "", fmt.Errorf("writing %s stylesheet: %w", style, err)
	}
	return b.String(), nil
}
