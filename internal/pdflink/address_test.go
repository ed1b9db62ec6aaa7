package pdflink

// Notes:
// - Decode is total: every malformed input case asserts the fallback values
//   rather than an error
// - Round-trip tests cover highlight text with query metacharacters
//   (&, =, +, #, %) and non-ASCII text

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDecode - Link Text to Address
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Address
	}{
		{
			name:  "file page and highlight",
			input: "pdf:report.pdf#page=4&highlight=throughput",
			want:  Address{File: "report.pdf", Page: 4, Highlight: "throughput"},
		},
		{
			name:  "file only",
			input: "pdf:report.pdf",
			want:  Address{File: "report.pdf", Page: 1},
		},
		{
			name:  "empty fragment",
			input: "pdf:report.pdf#",
			want:  Address{File: "report.pdf", Page: 1},
		},
		{
			name:  "missing page parameter",
			input: "pdf:report.pdf#highlight=abc",
			want:  Address{File: "report.pdf", Page: 1, Highlight: "abc"},
		},
		{
			name:  "non-numeric page falls back to 1",
			input: "pdf:report.pdf#page=abc",
			want:  Address{File: "report.pdf", Page: 1},
		},
		{
			name:  "numeric prefix is not a page",
			input: "pdf:report.pdf#page=4abc",
			want:  Address{File: "report.pdf", Page: 1},
		},
		{
			name:  "zero page falls back to 1",
			input: "pdf:report.pdf#page=0",
			want:  Address{File: "report.pdf", Page: 1},
		},
		{
			name:  "negative page falls back to 1",
			input: "pdf:report.pdf#page=-3",
			want:  Address{File: "report.pdf", Page: 1},
		},
		{
			name:  "large page has no upper bound",
			input: "pdf:report.pdf#page=99999",
			want:  Address{File: "report.pdf", Page: 99999},
		},
		{
			name:  "plus decodes to space",
			input: "pdf:paper.pdf#page=2&highlight=some+text",
			want:  Address{File: "paper.pdf", Page: 2, Highlight: "some text"},
		},
		{
			name:  "percent encoded highlight",
			input: "pdf:paper.pdf#page=2&highlight=a%20%26%20b",
			want:  Address{File: "paper.pdf", Page: 2, Highlight: "a & b"},
		},
		{
			name:  "empty highlight is absent",
			input: "pdf:paper.pdf#page=2&highlight=",
			want:  Address{File: "paper.pdf", Page: 2},
		},
		{
			name:  "parameter order does not matter",
			input: "pdf:paper.pdf#highlight=x&page=7",
			want:  Address{File: "paper.pdf", Page: 7, Highlight: "x"},
		},
		{
			name:  "split on first hash only",
			input: "pdf:a.pdf#page=3#extra",
			want:  Address{File: "a.pdf", Page: 1},
		},
		{
			name:  "bad escape keeps other parameters",
			input: "pdf:a.pdf#page=5&highlight=%zz",
			want:  Address{File: "a.pdf", Page: 5},
		},
		{
			name:  "invalid utf-8 highlight dropped",
			input: "pdf:report.pdf#page=2&highlight=%FF",
			want:  Address{File: "report.pdf", Page: 2},
		},
		{
			name:  "subdirectory file",
			input: "pdf:papers/2024/a.pdf#page=2",
			want:  Address{File: "papers/2024/a.pdf", Page: 2},
		},
		{
			name:  "prefix only",
			input: "pdf:",
			want:  Address{Page: 1},
		},
		{
			name:  "shorter than prefix",
			input: "pd",
			want:  Address{Page: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Decode(tt.input)
			if got != tt.want {
				t.Errorf("Decode(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.Page < 1 {
				t.Errorf("Decode(%q) page = %d, must be >= 1", tt.input, got.Page)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse - Scheme Check
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid link", func(t *testing.T) {
		t.Parallel()

		got, err := Parse("pdf:a.pdf#page=2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.File != "a.pdf" || got.Page != 2 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("missing scheme", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "https://example.com/a.pdf", "PDF:a.pdf", "a.pdf#page=2"} {
			_, err := Parse(input)
			if !errors.Is(err, ErrNotPDFLink) {
				t.Errorf("Parse(%q) error = %v, want ErrNotPDFLink", input, err)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestAddressString - Round Trip
// ---------------------------------------------------------------------------

func TestAddressString(t *testing.T) {
	t.Parallel()

	t.Run("canonical form", func(t *testing.T) {
		t.Parallel()

		got := Address{File: "report.pdf", Page: 4, Highlight: "throughput"}.String()
		want := "pdf:report.pdf#page=4&highlight=throughput"
		if got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("no highlight", func(t *testing.T) {
		t.Parallel()

		got := Address{File: "report.pdf", Page: 1}.String()
		if got != "pdf:report.pdf#page=1" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("page below 1 encodes as 1", func(t *testing.T) {
		t.Parallel()

		got := Address{File: "a.pdf"}.String()
		if got != "pdf:a.pdf#page=1" {
			t.Errorf("String() = %q", got)
		}
	})

	roundTrips := []Address{
		{File: "a.pdf", Page: 1},
		{File: "a.pdf", Page: 12, Highlight: "x"},
		{File: "dir/b c.pdf", Page: 3, Highlight: "two words"},
		{File: "a.pdf", Page: 2, Highlight: "a&b=c"},
		{File: "a.pdf", Page: 2, Highlight: "1+1 #tag 100%"},
		{File: "a.pdf", Page: 2, Highlight: `quote " and <tag>`},
		{File: "résumé.pdf", Page: 8, Highlight: "naïve café"},
		{File: "a.pdf", Page: 2, Highlight: "regex .*+?^${}()|[]\\"},
	}
	for _, addr := range roundTrips {
		t.Run("round trip "+addr.Highlight, func(t *testing.T) {
			t.Parallel()

			got := Decode(addr.String())
			if got != addr {
				t.Errorf("Decode(%q) = %+v, want %+v", addr.String(), got, addr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAddressHref
// ---------------------------------------------------------------------------

func TestAddressHref(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file string
		want string
	}{
		{"report.pdf", "/pdfs/report.pdf"},
		{"my report.pdf", "/pdfs/my%20report.pdf"},
		{"a?b.pdf", "/pdfs/a%3Fb.pdf"},
		{"papers/2024/a.pdf", "/pdfs/papers/2024/a.pdf"},
	}

	for _, tt := range tests {
		got := Address{File: tt.file, Page: 1}.Href()
		if got != tt.want {
			t.Errorf("Href(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestAddressValidate
// ---------------------------------------------------------------------------

func TestAddressValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"plain file", "a.pdf", false},
		{"nested file", "papers/a.pdf", false},
		{"empty", "", true},
		{"hash", "a#b.pdf", true},
		{"traversal", "../secret.pdf", true},
		{"backslash", `dir\a.pdf`, true},
		{"null byte", "a\x00.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Address{File: tt.file, Page: 1}.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFile) {
					t.Errorf("Validate() error = %v, want ErrInvalidFile", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
