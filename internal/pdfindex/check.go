package pdfindex

import (
	"fmt"
	"strings"

	"github.com/alnah/go-termblog/internal/pdflink"
)

// ProblemKind classifies a broken pdf: link.
type ProblemKind string

// Problem kinds reported by Check.
const (
	ProblemMissingFile       ProblemKind = "missing-file"
	ProblemUnreadableFile    ProblemKind = "unreadable-file"
	ProblemPageOutOfRange    ProblemKind = "page-out-of-range"
	ProblemHighlightNotFound ProblemKind = "highlight-not-found"
)

// Link is a pdf: link found in a post.
type Link struct {
	Post    string // post slug, or the source path for non-post pages
	Source  string // source file path
	Line    int
	Raw     string
	Address pdflink.Address
}

// Problem is a link that does not resolve against the index.
type Problem struct {
	Link   Link        `json:"-"`
	Post   string      `json:"post"`
	Source string      `json:"source"`
	Line   int         `json:"line"`
	Raw    string      `json:"link"`
	Kind   ProblemKind `json:"kind"`
	Detail string      `json:"detail"`
}

// String formats the problem as source:line: link: kind (detail).
func (p Problem) String() string {
	return fmt.Sprintf("%s:%d: %s: %s (%s)", p.Source, p.Line, p.Raw, p.Kind, p.Detail)
}

// Check verifies every link against idx. A link must name an indexed
// file, a page within 1..PageCount and, when it carries a highlight and the
// target page has extractable text, a phrase found on that page.
// Problems are returned in link order.
func Check(links []Link, idx *Index) []Problem {
	var problems []Problem
	for _, l := range links {
		if kind, detail, ok := checkLink(l, idx); !ok {
			problems = append(problems, Problem{
				Link:   l,
				Post:   l.Post,
				Source: l.Source,
				Line:   l.Line,
				Raw:    l.Raw,
				Kind:   kind,
				Detail: detail,
			})
		}
	}
	return problems
}

func checkLink(l Link, idx *Index) (ProblemKind, string, bool) {
	a := l.Address
	if err := a.Validate(); err != nil {
		return ProblemMissingFile, err.Error(), false
	}

	doc, ok := idx.Lookup(a.File)
	if !ok {
		return ProblemMissingFile, fmt.Sprintf("%s is not in the pdf directory", a.File), false
	}
	if doc.Err != "" {
		return ProblemUnreadableFile, doc.Err, false
	}
	if a.Page < 1 || a.Page > doc.PageCount {
		return ProblemPageOutOfRange, fmt.Sprintf("%s has %d %s", a.File, doc.PageCount, plural(doc.PageCount, "page")), false
	}

	if a.Highlight == "" {
		return "", "", true
	}
	text := doc.PageText(a.Page)
	if strings.TrimSpace(text) == "" {
		return "", "", true
	}
	if !pdflink.ContainsPhrase(text, a.Highlight) {
		return ProblemHighlightNotFound, fmt.Sprintf("%q not found on page %d", a.Highlight, a.Page), false
	}
	return "", "", true
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// CountByKind tallies problems per kind.
func CountByKind(problems []Problem) map[ProblemKind]int {
	counts := make(map[ProblemKind]int)
	for _, p := range problems {
		counts[p.Kind]++
	}
	return counts
}
