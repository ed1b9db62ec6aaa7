package pdfindex

import (
	"github.com/alnah/go-termblog/internal/pdflink"
)

// PageHTML is one page of a document prepared for the viewer panel.
type PageHTML struct {
	Number  int
	HTML    string // escaped page text with highlight marks
	Matched bool   // the page contains the highlight phrase
}

// PageView returns every page of doc with highlight occurrences wrapped in
// <mark>. Text is escaped whether or not a highlight is given.
func PageView(doc *Document, highlight string) []PageHTML {
	pages := make([]PageHTML, doc.PageCount)
	for i := range pages {
		text := doc.PageText(i + 1)
		pages[i] = PageHTML{
			Number:  i + 1,
			HTML:    pdflink.MarkHighlights(text, highlight),
			Matched: highlight != "" && pdflink.ContainsPhrase(text, highlight),
		}
	}
	return pages
}

// FirstMatch returns the first page containing highlight, or 0.
func FirstMatch(pages []PageHTML) int {
	for _, p := range pages {
		if p.Matched {
			return p.Number
		}
	}
	return 0
}
