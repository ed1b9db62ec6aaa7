package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestRenderer_ToHTML - Markdown rendering
// ---------------------------------------------------------------------------

func TestRenderer_ToHTML(t *testing.T) {
	t.Parallel()

	r := NewRenderer()

	tests := []struct {
		name     string
		markdown string
		contains []string
		excludes []string
	}{
		{
			name:     "heading gets an id",
			markdown: "# Reading Papers",
			contains: []string{`<h1 id="reading-papers">Reading Papers</h1>`},
		},
		{
			name:     "gfm table",
			markdown: "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "strikethrough",
			markdown: "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "footnote",
			markdown: "claim[^1]\n\n[^1]: source",
			contains: []string{`class="footnote-ref"`, "source"},
		},
		{
			name:     "mark",
			markdown: "a ==key== point",
			contains: []string{"<mark>key</mark>"},
			excludes: []string{MarkStartPlaceholder, MarkEndPlaceholder},
		},
		{
			name:     "highlighted code block",
			markdown: "```go\nfunc main() {}\n```",
			contains: []string{
				`<div class="` + CodeBlockClass + `">`,
				`class="` + CopyButtonClass + `"`,
				`class="chroma"`,
			},
		},
		{
			name:     "unknown language still wrapped",
			markdown: "```nosuchlang\n<tag> & ==x==\n```",
			contains: []string{
				`<div class="` + CodeBlockClass + `">`,
				`<pre class="chroma"><code class="language-nosuchlang">`,
				"&lt;tag&gt; &amp; ==x==",
				"</code></pre></div>",
			},
		},
		{
			name:     "pdf link becomes viewer anchor",
			markdown: "[fig 2](pdf:report.pdf#page=4&highlight=throughput)",
			contains: []string{
				`href="/pdfs/report.pdf"`,
				`class="pdf-link"`,
				`data-pdf-page="4"`,
				`data-pdf-highlight="throughput"`,
				">fig 2</a>",
			},
		},
		{
			name:     "ordinary link unchanged",
			markdown: "[home](https://example.org)",
			contains: []string{`<a href="https://example.org">home</a>`},
			excludes: []string{"pdf-link"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.ToHTML(context.Background(), tt.markdown)
			if err != nil {
				t.Fatalf("ToHTML() unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("ToHTML() contains %q in:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestRenderer_ToHTML_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRenderer().ToHTML(ctx, "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}

func TestRenderer_ToHTML_DeadlineExceeded(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := NewRenderer().ToHTML(ctx, "# x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ToHTML() error = %v, want context.DeadlineExceeded", err)
	}
}

// ---------------------------------------------------------------------------
// TestSyntaxCSS - Chroma stylesheets
// ---------------------------------------------------------------------------

func TestSyntaxCSS(t *testing.T) {
	t.Parallel()

	t.Run("default style", func(t *testing.T) {
		t.Parallel()

		css, err := SyntaxCSS("")
		if err != nil {
			t.Fatalf("SyntaxCSS(\"\") error: %v", err)
		}
		if !strings.Contains(css, ".chroma") {
			t.Errorf("SyntaxCSS(\"\") has no .chroma rules: %q", css)
		}
	})

	t.Run("case-insensitive name", func(t *testing.T) {
		t.Parallel()

		if _, err := SyntaxCSS("MonoKai"); err != nil {
			t.Errorf("SyntaxCSS(MonoKai) error: %v", err)
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		if _, err := SyntaxCSS("no-such-style"); !errors.Is(err, ErrUnknownStyle) {
			t.Errorf("SyntaxCSS() error = %v, want ErrUnknownStyle", err)
		}
	})

	t.Run("styles listed", func(t *testing.T) {
		t.Parallel()

		found := false
		for _, name := range SyntaxStyles() {
			if name == DefaultSyntaxStyle {
				found = true
			}
		}
		if !found {
			t.Errorf("SyntaxStyles() does not list %q", DefaultSyntaxStyle)
		}
	})
}
