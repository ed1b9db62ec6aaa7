// Package pipeline turns post markdown into the HTML fragment embedded in
// site pages.
//
// The stages run in order:
//   - Preprocessor: line endings, ==mark== syntax, blank line runs
//   - Renderer: goldmark with GFM, footnotes, chroma highlighting, pdf: links
//   - RewriteLinks: relative .md and pdfs/ links to site routes
//
// ExtractPDFLinks and Headings read the same markdown and HTML for the
// link checker and the post table of contents.
package pipeline
