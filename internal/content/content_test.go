package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func writePost(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func slugs(posts []*Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

// ---------------------------------------------------------------------------
// TestParsePost - Frontmatter handling
// ---------------------------------------------------------------------------

func TestParsePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantMeta PostMeta
		wantBody string
		wantErr  error
	}{
		{
			name: "full frontmatter",
			source: "---\ntitle: Reading Papers\ndate: 2024-03-07\ndescription: How I read\ntags: [Research, \"Machine Learning\"]\n---\n# Hello\n",
			wantMeta: PostMeta{
				Slug:        "reading",
				Title:       "Reading Papers",
				Date:        time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
				RawDate:     "2024-03-07",
				Description: "How I read",
				Tags:        []string{"Research", "Machine Learning"},
			},
			wantBody: "# Hello\n",
		},
		{
			name:   "title defaults to slug and date to now",
			source: "---\ntags: []\n---\nbody",
			wantMeta: PostMeta{
				Slug:  "reading",
				Title: "reading",
				Date:  fixedNow,
				Tags:  []string{},
			},
			wantBody: "body",
		},
		{
			name:   "no frontmatter",
			source: "just text\n",
			wantMeta: PostMeta{
				Slug:  "reading",
				Title: "reading",
				Date:  fixedNow,
				Tags:  []string{},
			},
			wantBody: "just text\n",
		},
		{
			name:   "blank tags dropped",
			source: "---\ntags: [go, \" \", pdf]\n---\n",
			wantMeta: PostMeta{
				Slug:  "reading",
				Title: "reading",
				Date:  fixedNow,
				Tags:  []string{"go", "pdf"},
			},
		},
		{
			name:    "unparseable date",
			source:  "---\ndate: last tuesday\n---\n",
			wantErr: ErrFrontmatter,
		},
		{
			name:    "broken yaml",
			source:  "---\ntitle: [unclosed\n---\n",
			wantErr: ErrFrontmatter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			post, err := ParsePost(filepath.Join("posts", "reading.md"), []byte(tt.source), clock)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePost() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePost() unexpected error: %v", err)
			}
			if !post.Date.Equal(tt.wantMeta.Date) {
				t.Errorf("Date = %v, want %v", post.Date, tt.wantMeta.Date)
			}
			got := post.PostMeta
			got.Date, tt.wantMeta.Date = time.Time{}, time.Time{}
			if !reflect.DeepEqual(got, tt.wantMeta) {
				t.Errorf("PostMeta = %+v, want %+v", got, tt.wantMeta)
			}
			if tt.wantBody != "" && string(post.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", post.Body, tt.wantBody)
			}
		})
	}
}

func TestParsePost_BodyLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   int
	}{
		{name: "no frontmatter", source: "# Title\n\ntext\n", want: 1},
		{name: "frontmatter", source: "---\ntitle: A\ndate: 2024-01-02\n---\n# Title\n", want: 5},
		{name: "empty body", source: "---\ntitle: A\n---\n", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			post, err := ParsePost("a.md", []byte(tt.source), clock)
			if err != nil {
				t.Fatalf("ParsePost() error: %v", err)
			}
			if post.BodyLine != tt.want {
				t.Errorf("BodyLine = %d, want %d (body %q)", post.BodyLine, tt.want, post.Body)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFilter_Match - Include and exclude globs
// ---------------------------------------------------------------------------

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		rel    string
		want   bool
	}{
		{name: "default top-level", filter: Filter{}, rel: "a.md", want: true},
		{name: "default skips nested", filter: Filter{}, rel: "2024/a.md", want: false},
		{name: "default skips non-markdown", filter: Filter{}, rel: "a.txt", want: false},
		{name: "recursive include", filter: Filter{Include: []string{"**/*.md"}}, rel: "2024/03/a.md", want: true},
		{name: "exclude by path", filter: Filter{Include: []string{"**/*.md"}, Exclude: []string{"drafts/**"}}, rel: "drafts/wip.md", want: false},
		{name: "exclude by base name", filter: Filter{Include: []string{"**/*.md"}, Exclude: []string{"_*.md"}}, rel: "2024/_notes.md", want: false},
		{name: "exclude misses", filter: Filter{Exclude: []string{"draft-*.md"}}, rel: "final.md", want: true},
		{name: "include pattern must still be markdown", filter: Filter{Include: []string{"*"}}, rel: "notes.txt", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.filter.Match(tt.rel); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoad - Directory loading
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "old.md", "---\ntitle: Old\ndate: 2023-01-01\ntags: [Go]\n---\n")
	writePost(t, dir, "new.md", "---\ntitle: New\ndate: 2024-05-01\ntags: [go, PDF]\n---\n")
	writePost(t, dir, "b-same.md", "---\ndate: 2024-02-02\n---\n")
	writePost(t, dir, "a-same.md", "---\ndate: 2024-02-02\n---\n")
	writePost(t, dir, "notes.txt", "ignored")
	writePost(t, dir, "2022/nested.md", "---\ndate: 2022-01-01\n---\n")
	writePost(t, dir, ".hidden/secret.md", "---\ndate: 2022-01-01\n---\n")

	store, err := Load(context.Background(), dir, Filter{}, clock)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []string{"new", "a-same", "b-same", "old"}
	if got := slugs(store.All()); !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
	if got := slugs(store.Recent(2)); !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("Recent(2) = %v", got)
	}
	if got := store.Recent(50); len(got) != 4 {
		t.Errorf("Recent(50) returned %d posts", len(got))
	}
	if got := store.Recent(-1); len(got) != 0 {
		t.Errorf("Recent(-1) returned %d posts", len(got))
	}
	if p, ok := store.BySlug("old"); !ok || p.Title != "Old" {
		t.Errorf("BySlug(old) = %v, %v", p, ok)
	}
	if _, ok := store.BySlug("nested"); ok {
		t.Error("nested post loaded without a recursive include")
	}

	recursive, err := Load(context.Background(), dir, Filter{Include: []string{"**/*.md"}}, clock)
	if err != nil {
		t.Fatalf("Load(recursive) error: %v", err)
	}
	if _, ok := recursive.BySlug("nested"); !ok {
		t.Error("recursive include missed 2022/nested.md")
	}
	if _, ok := recursive.BySlug("secret"); ok {
		t.Error("hidden directory was walked")
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	t.Parallel()

	store, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), Filter{}, clock)
	if err != nil {
		t.Fatalf("Load(missing) error: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	if tags := store.AllTags(); len(tags) != 0 {
		t.Errorf("AllTags() = %v", tags)
	}
}

func TestLoad_DuplicateSlug(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "a/post.md", "x")
	writePost(t, dir, "b/post.md", "y")

	_, err := Load(context.Background(), dir, Filter{Include: []string{"**/*.md"}}, clock)
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("Load() error = %v, want ErrDuplicateSlug", err)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "a.md", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, dir, Filter{}, clock); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestTags - Normalization, counts and lookups
// ---------------------------------------------------------------------------

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Go":                   "go",
		"  Machine   Learning ": "machine-learning",
		"machine-learning":     "machine-learning",
		"tab\tsep":             "tab-sep",
		"":                     "",
	}
	for in, want := range tests {
		if got := NormalizeTag(in); got != want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func tagStore() *Store {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return NewStore([]*Post{
		{PostMeta: PostMeta{Slug: "one", Date: day(1), Tags: []string{"go", "Machine Learning"}}},
		{PostMeta: PostMeta{Slug: "two", Date: day(2), Tags: []string{"Go", "pdf", "GO"}}},
		{PostMeta: PostMeta{Slug: "three", Date: day(3), Tags: []string{"machine-learning", "Zig"}}},
		{PostMeta: PostMeta{Slug: "four", Date: day(4)}},
	})
}

func TestStore_AllTags(t *testing.T) {
	t.Parallel()

	want := []TagCount{
		{Tag: "Go", Normalized: "go", Count: 2},
		{Tag: "machine-learning", Normalized: "machine-learning", Count: 2},
		{Tag: "pdf", Normalized: "pdf", Count: 1},
		{Tag: "Zig", Normalized: "zig", Count: 1},
	}
	if got := tagStore().AllTags(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllTags() =\n %+v\nwant\n %+v", got, want)
	}
}

func TestStore_PostsByTag(t *testing.T) {
	t.Parallel()

	s := tagStore()
	if got := slugs(s.PostsByTag("GO")); !reflect.DeepEqual(got, []string{"two", "one"}) {
		t.Errorf("PostsByTag(GO) = %v", got)
	}
	if got := slugs(s.PostsByTag("Machine Learning")); !reflect.DeepEqual(got, []string{"three", "one"}) {
		t.Errorf("PostsByTag(Machine Learning) = %v", got)
	}
	if got := s.PostsByTag("rust"); len(got) != 0 {
		t.Errorf("PostsByTag(rust) = %v", slugs(got))
	}
}

func TestStore_TagDisplayName(t *testing.T) {
	t.Parallel()

	s := tagStore()
	if got, ok := s.TagDisplayName("machine-learning"); !ok || got != "machine-learning" {
		t.Errorf("TagDisplayName(machine-learning) = %q, %v", got, ok)
	}
	if got, ok := s.TagDisplayName("go"); !ok || got != "Go" {
		t.Errorf("TagDisplayName(go) = %q, %v", got, ok)
	}
	if _, ok := s.TagDisplayName("rust"); ok {
		t.Error("TagDisplayName(rust) found")
	}
}
