package pdflink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
)

func render(t *testing.T, md string) string {
	t.Helper()

	var buf bytes.Buffer
	if err := goldmark.New(goldmark.WithExtensions(Extension)).Convert([]byte(md), &buf); err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	return buf.String()
}

// ---------------------------------------------------------------------------
// TestExtension - Rendered Anchor Contract
// ---------------------------------------------------------------------------

func TestExtension_PDFLink(t *testing.T) {
	t.Parallel()

	got := render(t, "[see fig 2](pdf:report.pdf#page=4&highlight=throughput)")

	wantContains := []string{
		`href="/pdfs/report.pdf"`,
		`class="pdf-link"`,
		`data-pdf-file="report.pdf"`,
		`data-pdf-page="4"`,
		`data-pdf-highlight="throughput"`,
		`title="Open report.pdf"`,
		`>see fig 2</a>`,
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot: %s", want, got)
		}
	}
	if strings.Contains(got, `href="pdf:`) {
		t.Errorf("href must not carry the pdf: scheme\ngot: %s", got)
	}
}

func TestExtension_EscapesQuotes(t *testing.T) {
	t.Parallel()

	got := render(t, `[q](pdf:a.pdf#page=2&highlight=say+%22hi%22 'my "title"')`)

	if !strings.Contains(got, `data-pdf-highlight="say &quot;hi&quot;"`) {
		t.Errorf("highlight not attribute-escaped\ngot: %s", got)
	}
	if !strings.Contains(got, `title="my &quot;title&quot;"`) {
		t.Errorf("title not attribute-escaped\ngot: %s", got)
	}
}

func TestExtension_DefaultsPage(t *testing.T) {
	t.Parallel()

	got := render(t, "[doc](pdf:a.pdf)")
	if !strings.Contains(got, `data-pdf-page="1"`) {
		t.Errorf("expected page 1\ngot: %s", got)
	}
	if !strings.Contains(got, `data-pdf-highlight=""`) {
		t.Errorf("expected empty highlight attribute\ngot: %s", got)
	}
}

func TestExtension_InlineMarkupInsideLink(t *testing.T) {
	t.Parallel()

	got := render(t, "[**bold** text](pdf:a.pdf#page=3)")
	if !strings.Contains(got, `<strong>bold</strong> text</a>`) {
		t.Errorf("inline children not rendered\ngot: %s", got)
	}
}

func TestExtension_OrdinaryLinksUnchanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		md   string
		want string
	}{
		{"http link", "[x](https://example.com)", `<a href="https://example.com">x</a>`},
		{"titled link", `[x](/a "T")`, `<a href="/a" title="T">x</a>`},
		{"relative link", "[x](other.md)", `<a href="other.md">x</a>`},
		{"dangerous url dropped", "[x](javascript:alert(1))", `<a href="">x</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := render(t, tt.md)
			if !strings.Contains(got, tt.want) {
				t.Errorf("got %s, want to contain %s", got, tt.want)
			}
			if strings.Contains(got, "pdf-link") {
				t.Errorf("ordinary link marked as pdf link: %s", got)
			}
		})
	}
}
