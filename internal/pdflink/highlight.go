package pdflink

import (
	"html"
	"regexp"
	"strings"
)

// HighlightClass marks highlighted phrases inside rendered page text.
const HighlightClass = "pdf-highlight"

// EscapeRegExp escapes the characters that carry meaning in a regular
// expression (. * + ? ^ $ { } ( ) | [ ] \) so that s matches literally.
func EscapeRegExp(s string) string {
	return regexp.QuoteMeta(s)
}

// HighlightMatcher builds a case-insensitive matcher for the literal phrase.
// Any whitespace run in phrase matches any whitespace run in the text, so
// phrases wrapped across extracted lines still match. Returns false for a
// blank phrase or one that is not valid UTF-8.
func HighlightMatcher(phrase string) (*regexp.Regexp, bool) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil, false
	}
	for i, w := range words {
		words[i] = EscapeRegExp(w)
	}
	re, err := regexp.Compile(`(?i)(` + strings.Join(words, `\s+`) + `)`)
	if err != nil {
		return nil, false
	}
	return re, true
}

// MarkHighlights HTML-escapes text and wraps every occurrence of phrase in a
// <mark> element. Text is returned escaped but unmarked when phrase is empty.
func MarkHighlights(text, phrase string) string {
	re, ok := HighlightMatcher(phrase)
	if !ok {
		return html.EscapeString(text)
	}

	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return html.EscapeString(text)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(html.EscapeString(text[last:m[0]]))
		b.WriteString(`<mark class="` + HighlightClass + `">`)
		b.WriteString(html.EscapeString(text[m[0]:m[1]]))
		b.WriteString(`</mark>`)
		last = m[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// ContainsPhrase reports whether text contains phrase, ignoring case and
// differences in whitespace.
func ContainsPhrase(text, phrase string) bool {
	re, ok := HighlightMatcher(phrase)
	if !ok {
		return false
	}
	return re.MatchString(text)
}
