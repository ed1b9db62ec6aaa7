package fileutil_test

// Notes:
// - Write/Close/Rename failure branches of WriteFileAtomic are not tested:
//   provoking them portably needs a full disk or a read-only mount.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-termblog/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "blog", "hello", "index.html")

	if err := fileutil.WriteFileAtomic(path, []byte("<h1>v1</h1>")); err != nil {
		t.Fatalf("WriteFileAtomic() error: %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("<h1>v2</h1>")); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "<h1>v2</h1>" {
		t.Errorf("content = %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteFileAtomic_ParentIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(blocker, "x.html"), []byte("x")); err == nil {
		t.Error("WriteFileAtomic() under a file = nil, want error")
	}
}

// ---------------------------------------------------------------------------
// TestCopyFile - File copies
// ---------------------------------------------------------------------------

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(src, []byte("%PDF-1.7"), 0o600); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out", "pdfs", "report.pdf")
	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "%PDF-1.7" {
		t.Errorf("copied = %q, %v", got, err)
	}

	if err := fileutil.CopyFile(filepath.Join(dir, "missing.pdf"), dst); err == nil {
		t.Error("CopyFile(missing) = nil, want error")
	}
}

// ---------------------------------------------------------------------------
// TestSafeJoin - Traversal refusal
// ---------------------------------------------------------------------------

func TestSafeJoin(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/srv/site/pdfs")
	tests := []struct {
		rel     string
		want    string
		wantErr bool
	}{
		{rel: "report.pdf", want: filepath.Join(root, "report.pdf")},
		{rel: "papers/2024/a.pdf", want: filepath.Join(root, "papers", "2024", "a.pdf")},
		{rel: "papers/../a.pdf", want: filepath.Join(root, "a.pdf")},
		{rel: "../secret.pdf", wantErr: true},
		{rel: "papers/../../secret.pdf", wantErr: true},
		{rel: "..", wantErr: true},
		{rel: "/etc/passwd", wantErr: true},
		{rel: "", wantErr: true},
		{rel: "a\x00.pdf", wantErr: true},
	}

	for _, tt := range tests {
		got, err := fileutil.SafeJoin(root, tt.rel)
		if tt.wantErr {
			if !errors.Is(err, fileutil.ErrUnsafePath) {
				t.Errorf("SafeJoin(%q) error = %v, want ErrUnsafePath", tt.rel, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("SafeJoin(%q) = %q, %v; want %q", tt.rel, got, err, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Stat helpers
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if fileutil.FileExists(filepath.Join(dir, "nope")) {
		t.Error("FileExists(missing) = true")
	}
	if !fileutil.DirExists(dir) {
		t.Error("DirExists(dir) = false")
	}
	if fileutil.DirExists(file) {
		t.Error("DirExists(file) = true")
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL - String classification
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"blog":               false,
		"my-blog":            false,
		"./blog.yaml":        true,
		"../shared/blog.yml": true,
		"/etc/termblog.yaml": true,
		`C:\sites\blog.yaml`: true,
	}
	for in, want := range tests {
		if got := fileutil.IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"https://example.org":   true,
		"http://localhost:8080": true,
		"mailto:me@example.org": true,
		"pdf:report.pdf#page=2": true,
		"//cdn.example.org/x":   true,
		"svn+ssh://host/repo":   true,
		"other-post.md":         false,
		"../pdfs/a.pdf":         false,
		"#section":              false,
		":nothing":              false,
		"1http://x":             false,
		"images/a:b.png":        false,
	}
	for in, want := range tests {
		if got := fileutil.IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
