// Package pdflink implements the pdf: deep-link scheme used in blog posts.
//
// Authors write links such as
//
//	[see fig 2](pdf:report.pdf#page=4&highlight=throughput)
//
// which decode into an Address (file, page, optional highlight phrase).
// At render time the address is carried by a conventional anchor whose
// href points at the raw document under /pdfs/, so modified clicks keep
// their native behavior while plain clicks can be intercepted by the viewer.
package pdflink

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Scheme is the authoring-time prefix identifying a PDF deep link.
const Scheme = "pdf:"

// ResourcePrefix is the path under which PDF documents are served.
const ResourcePrefix = "/pdfs/"

// Query parameter names inside the link fragment.
const (
	paramPage      = "page"
	paramHighlight = "highlight"
)

// Sentinel errors for link parsing and validation.
var (
	ErrNotPDFLink  = errors.New("not a pdf link")
	ErrInvalidFile = errors.New("invalid pdf file identifier")
)

// Address is the decoded form of a pdf: deep link.
// Page is always >= 1 after decoding. An empty Highlight means none.
type Address struct {
	File      string
	Page      int
	Highlight string
}

// IsLink reports whether s carries the pdf: scheme prefix.
func IsLink(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// Decode turns authored link text into an Address.
//
// The scheme prefix is stripped without being checked, so callers must only
// pass strings for which IsLink is true (Parse does the check). Decoding
// never fails: a missing or malformed page becomes 1, and an empty highlight
// or one that does not decode to valid UTF-8 is treated as absent.
func Decode(s string) Address {
	rest := ""
	if len(s) > len(Scheme) {
		rest = s[len(Scheme):]
	}

	file, fragment, _ := strings.Cut(rest, "#")

	// ParseQuery keeps every pair it could decode even when it reports an
	// error for a later one.
	params, _ := url.ParseQuery(fragment)

	highlight := params.Get(paramHighlight)
	if !utf8.ValidString(highlight) {
		highlight = ""
	}

	return Address{
		File:      file,
		Page:      parsePage(params.Get(paramPage)),
		Highlight: highlight,
	}
}

// Parse is Decode with an explicit scheme check.
// Returns ErrNotPDFLink when s does not start with the pdf: prefix.
func Parse(s string) (Address, error) {
	if !IsLink(s) {
		return Address{}, fmt.Errorf("%w: %q", ErrNotPDFLink, s)
	}
	return Decode(s), nil
}

// parsePage parses a base-10 page number, falling back to 1.
func parsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// String encodes the address back into its authored form.
// Decode(a.String()) reproduces a for any valid address.
func (a Address) String() string {
	var b strings.Builder
	b.Grow(len(Scheme) + len(a.File) + len(a.Highlight) + 24)

	b.WriteString(Scheme)
	b.WriteString(a.File)
	b.WriteString("#")
	b.WriteString(paramPage)
	b.WriteString("=")
	b.WriteString(strconv.Itoa(a.normalizedPage()))
	if a.Highlight != "" {
		b.WriteString("&")
		b.WriteString(paramHighlight)
		b.WriteString("=")
		b.WriteString(url.QueryEscape(a.Highlight))
	}
	return b.String()
}

// Href returns the literal resource path of the addressed document.
func (a Address) Href() string {
	u := url.URL{Path: a.File}
	return ResourcePrefix + u.EscapedPath()
}

// Validate checks that the address can be served and round-tripped.
func (a Address) Validate() error {
	switch {
	case a.File == "":
		return fmt.Errorf("%w: empty file", ErrInvalidFile)
	case strings.Contains(a.File, "#"):
		return fmt.Errorf("%w: %q contains '#'", ErrInvalidFile, a.File)
	case strings.Contains(a.File, ".."):
		return fmt.Errorf("%w: %q escapes the pdf directory", ErrInvalidFile, a.File)
	case strings.ContainsAny(a.File, "\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidFile, a.File)
	}
	return nil
}

func (a Address) normalizedPage() int {
	if a.Page < 1 {
		return 1
	}
	return a.Page
}
