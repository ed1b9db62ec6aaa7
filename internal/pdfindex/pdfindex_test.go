package pdfindex

// Notes:
// - TextInspector is only exercised on files that are not PDFs; page text
//   extraction is covered through fakeInspector.

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-termblog/internal/pdflink"
)

// fakeInspector returns canned documents keyed by base name.
type fakeInspector struct {
	mu    sync.Mutex
	docs  map[string]*Document
	calls []string
}

func (f *fakeInspector) Inspect(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(path))
	f.mu.Unlock()

	d, ok := f.docs[filepath.Base(path)]
	if !ok {
		return nil, ErrInspect
	}
	copied := *d
	return &copied, nil
}

func touch(t *testing.T, dir, rel string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("%PDF-fake"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func reportDoc() *Document {
	return &Document{
		File:      "report.pdf",
		PageCount: 4,
		Pages: []string{
			"Introduction",
			"Method",
			"",
			"Results show that throughput\ndoubled under load.",
		},
	}
}

// ---------------------------------------------------------------------------
// TestBuild - Concurrent directory inspection
// ---------------------------------------------------------------------------

func TestBuild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "report.pdf")
	touch(t, dir, "deep/Paper.PDF")
	touch(t, dir, "broken.pdf")
	touch(t, dir, "notes.txt")
	touch(t, dir, ".cache/skip.pdf")

	fake := &fakeInspector{docs: map[string]*Document{
		"report.pdf": reportDoc(),
		"Paper.PDF":  {PageCount: 2, Pages: []string{"a", "b"}},
	}}

	idx, err := Build(context.Background(), dir, WithInspector(fake), WithWorkers(3))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := []string{"broken.pdf", "deep/Paper.PDF", "report.pdf"}
	if got := idx.Files(); !reflect.DeepEqual(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}
	if len(fake.calls) != 3 {
		t.Errorf("inspector called %d times, want 3", len(fake.calls))
	}

	doc, ok := idx.Lookup("report.pdf")
	if !ok || doc.PageCount != 4 || doc.File != "report.pdf" {
		t.Errorf("Lookup(report.pdf) = %+v, %v", doc, ok)
	}
	broken, ok := idx.Lookup("broken.pdf")
	if !ok || broken.Err == "" {
		t.Errorf("Lookup(broken.pdf) = %+v, %v; want recorded error", broken, ok)
	}
}

func TestBuild_MissingDirectory(t *testing.T) {
	t.Parallel()

	idx, err := Build(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
}

func TestBuild_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "report.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, dir, WithInspector(&fakeInspector{}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestTextInspector_NotAPDF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (TextInspector{}).Inspect(context.Background(), path); !errors.Is(err, ErrInspect) {
		t.Errorf("Inspect() error = %v, want ErrInspect", err)
	}
	if _, err := (TextInspector{}).Inspect(context.Background(), path+".missing"); !errors.Is(err, ErrInspect) {
		t.Errorf("Inspect(missing) error = %v, want ErrInspect", err)
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, procs, want int
	}{
		{n: 3, procs: 1, want: 3},
		{n: 50, procs: 1, want: MaxWorkers},
		{n: 0, procs: 1, want: 1},
		{n: 0, procs: 8, want: 4},
		{n: -1, procs: 64, want: MaxWorkers},
	}
	for _, tt := range tests {
		if got := ResolveWorkers(tt.n, tt.procs); got != tt.want {
			t.Errorf("ResolveWorkers(%d, %d) = %d, want %d", tt.n, tt.procs, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestManifest - pdfs/index.json
// ---------------------------------------------------------------------------

func TestManifest(t *testing.T) {
	t.Parallel()

	idx := NewIndex(
		reportDoc(),
		&Document{File: "scan one.pdf", PageCount: 1, Pages: []string{""}},
		&Document{File: "bad.pdf", Err: "failed to inspect PDF"},
	)

	data, err := idx.Manifest().JSON()
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var got Manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("manifest is not JSON: %v\n%s", err, data)
	}
	want := Manifest{Files: []ManifestEntry{
		{File: "bad.pdf", Href: "/pdfs/bad.pdf", Error: "failed to inspect PDF"},
		{File: "report.pdf", Href: "/pdfs/report.pdf", Pages: 4, Text: true},
		{File: "scan one.pdf", Href: "/pdfs/scan%20one.pdf", Pages: 1},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Manifest =\n %+v\nwant\n %+v", got, want)
	}
	if strings.Contains(string(data), "Introduction") {
		t.Error("manifest leaks page text")
	}
}

// ---------------------------------------------------------------------------
// TestCheck - Link verification
// ---------------------------------------------------------------------------

func link(raw string, line int) Link {
	return Link{Post: "notes", Source: "posts/notes.md", Line: line, Raw: raw, Address: pdflink.Decode(raw)}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	idx := NewIndex(
		reportDoc(),
		&Document{File: "bad.pdf", Err: "malformed"},
	)

	tests := []struct {
		name     string
		raw      string
		wantKind ProblemKind
	}{
		{name: "valid page", raw: "pdf:report.pdf#page=2"},
		{name: "default page", raw: "pdf:report.pdf"},
		{name: "highlight found", raw: "pdf:report.pdf#page=4&highlight=throughput"},
		{name: "highlight ignores case", raw: "pdf:report.pdf#page=4&highlight=THROUGHPUT"},
		{name: "highlight across line break", raw: "pdf:report.pdf#page=4&highlight=throughput%20doubled"},
		{name: "highlight on page without text", raw: "pdf:report.pdf#page=3&highlight=anything"},
		{name: "missing file", raw: "pdf:other.pdf#page=1", wantKind: ProblemMissingFile},
		{name: "empty file", raw: "pdf:#page=1", wantKind: ProblemMissingFile},
		{name: "traversal", raw: "pdf:../secret.pdf", wantKind: ProblemMissingFile},
		{name: "unreadable", raw: "pdf:bad.pdf", wantKind: ProblemUnreadableFile},
		{name: "page too high", raw: "pdf:report.pdf#page=9", wantKind: ProblemPageOutOfRange},
		{name: "highlight absent", raw: "pdf:report.pdf#page=1&highlight=throughput", wantKind: ProblemHighlightNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			problems := Check([]Link{link(tt.raw, 7)}, idx)
			if tt.wantKind == "" {
				if len(problems) != 0 {
					t.Errorf("Check(%q) = %v, want none", tt.raw, problems)
				}
				return
			}
			if len(problems) != 1 {
				t.Fatalf("Check(%q) = %v, want one problem", tt.raw, problems)
			}
			p := problems[0]
			if p.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", p.Kind, tt.wantKind)
			}
			if p.Line != 7 || p.Post != "notes" || p.Raw != tt.raw {
				t.Errorf("Problem = %+v", p)
			}
		})
	}
}

func TestCheck_OrderAndCounts(t *testing.T) {
	t.Parallel()

	idx := NewIndex(reportDoc())
	problems := Check([]Link{
		link("pdf:a.pdf", 1),
		link("pdf:report.pdf#page=2", 2),
		link("pdf:report.pdf#page=5", 3),
		link("pdf:b.pdf", 4),
	}, idx)

	var lines []int
	for _, p := range problems {
		lines = append(lines, p.Line)
	}
	if !reflect.DeepEqual(lines, []int{1, 3, 4}) {
		t.Errorf("problem lines = %v, want [1 3 4]", lines)
	}

	counts := CountByKind(problems)
	if counts[ProblemMissingFile] != 2 || counts[ProblemPageOutOfRange] != 1 {
		t.Errorf("CountByKind() = %v", counts)
	}

	want := "posts/notes.md:3: pdf:report.pdf#page=5: page-out-of-range (report.pdf has 4 pages)"
	if got := problems[1].String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestPageView - Viewer panel pages
// ---------------------------------------------------------------------------

func TestPageView(t *testing.T) {
	t.Parallel()

	doc := &Document{File: "x.pdf", PageCount: 3, Pages: []string{"a <b> c", "Throughput up", "throughput down"}}

	pages := PageView(doc, "throughput")
	if len(pages) != 3 {
		t.Fatalf("PageView() returned %d pages", len(pages))
	}
	if pages[0].HTML != "a &lt;b&gt; c" || pages[0].Matched {
		t.Errorf("page 1 = %+v", pages[0])
	}
	if !strings.Contains(pages[1].HTML, `<mark class="pdf-highlight">Throughput</mark>`) || !pages[1].Matched {
		t.Errorf("page 2 = %+v", pages[1])
	}
	if got := FirstMatch(pages); got != 2 {
		t.Errorf("FirstMatch() = %d, want 2", got)
	}

	plain := PageView(doc, "")
	if FirstMatch(plain) != 0 || strings.Contains(plain[1].HTML, "<mark") {
		t.Errorf("PageView without highlight marked text: %+v", plain)
	}
}

func TestPageView_WrappedPhrase(t *testing.T) {
	t.Parallel()

	doc := &Document{File: "x.pdf", PageCount: 1, Pages: []string{"scaled dot-product\nattention"}}

	pages := PageView(doc, "dot-product attention")
	if !pages[0].Matched || !strings.Contains(pages[0].HTML, "<mark") {
		t.Errorf("marks and match flag disagree: %+v", pages[0])
	}

	bad := PageView(doc, "\xff")
	if bad[0].Matched || strings.Contains(bad[0].HTML, "<mark") {
		t.Errorf("invalid phrase should not match: %+v", bad[0])
	}
}

func TestPageView_ShortText(t *testing.T) {
	t.Parallel()

	doc := &Document{File: "x.pdf", PageCount: 2}
	pages := PageView(doc, "x")
	if len(pages) != 2 || pages[1].Number != 2 || pages[1].HTML != "" {
		t.Errorf("PageView() = %+v", pages)
	}
}
