package assets

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeAsset(t *testing.T, base, rel, content string) {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestValidate - Asset names
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"post", false},
		{"not-found_2", false},
		{"", true},
		{"../post", true},
		{"post.html", true},
		{`a\b`, true},
	}
	for _, tt := range tests {
		err := ValidateAssetName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAssetName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.name, err)
		}
	}
}

func TestValidateStaticName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"site.css", false},
		{"viewer.min.js", false},
		{"", true},
		{"css", true},
		{".env", true},
		{"../site.css", true},
		{"img/logo.png", true},
	}
	for _, tt := range tests {
		err := ValidateStaticName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStaticName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader - Built-in assets
// ---------------------------------------------------------------------------

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	l := NewEmbeddedLoader()

	for _, name := range append([]string{LayoutTemplate}, PageTemplates...) {
		src, err := l.LoadTemplate(name)
		if err != nil {
			t.Errorf("LoadTemplate(%q) error: %v", name, err)
			continue
		}
		if !strings.Contains(src, "{{define") {
			t.Errorf("LoadTemplate(%q) has no define block", name)
		}
	}

	if _, err := l.LoadTemplate("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}

	names, err := l.StaticNames()
	if err != nil {
		t.Fatalf("StaticNames() error: %v", err)
	}
	if want := []string{"copy.js", "site.css", "viewer.js"}; !reflect.DeepEqual(names, want) {
		t.Errorf("StaticNames() = %v, want %v", names, want)
	}

	js, err := l.LoadStatic("viewer.js")
	if err != nil {
		t.Fatalf("LoadStatic(viewer.js) error: %v", err)
	}
	if !strings.Contains(string(js), "/viewer/ws") {
		t.Error("viewer.js does not connect to the bridge")
	}
	if !strings.Contains(string(js), `send({ type: "resume" })`) {
		t.Error("viewer.js never asks the bridge to reopen the last document")
	}
	if _, err := l.LoadStatic("nope.css"); !errors.Is(err, ErrStaticNotFound) {
		t.Errorf("LoadStatic(nope.css) error = %v, want ErrStaticNotFound", err)
	}
}

func TestLoadTemplateSet_Embedded(t *testing.T) {
	t.Parallel()

	ts, err := LoadTemplateSet(NewEmbeddedLoader())
	if err != nil {
		t.Fatalf("LoadTemplateSet() error: %v", err)
	}
	if !strings.Contains(ts.Layout, `id="pdf-viewer"`) {
		t.Error("layout lacks the viewer panel")
	}
	if !strings.Contains(ts.Layout, `class="viewer-reopen"`) {
		t.Error("layout lacks the reopen button")
	}
	if len(ts.Pages) != len(PageTemplates) {
		t.Errorf("Pages has %d entries, want %d", len(ts.Pages), len(PageTemplates))
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader - Theme directories
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	writeAsset(t, filepath.Dir(file), "file", "x")

	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"missing", filepath.Join(t.TempDir(), "nope")},
		{"not a directory", file},
	}
	for _, tt := range tests {
		if _, err := NewFilesystemLoader(tt.path); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("%s: NewFilesystemLoader() error = %v, want ErrInvalidBasePath", tt.name, err)
		}
	}
}

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "templates/post.html", `{{define "content"}}custom{{end}}`)
	writeAsset(t, base, "static/site.css", "body{}")
	writeAsset(t, base, "static/logo.svg", "<svg/>")
	writeAsset(t, base, "static/.hidden", "x")

	l, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}

	if src, err := l.LoadTemplate("post"); err != nil || !strings.Contains(src, "custom") {
		t.Errorf("LoadTemplate(post) = %q, %v", src, err)
	}
	if _, err := l.LoadTemplate("home"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(home) error = %v, want ErrTemplateNotFound", err)
	}
	if css, err := l.LoadStatic("site.css"); err != nil || string(css) != "body{}" {
		t.Errorf("LoadStatic(site.css) = %q, %v", css, err)
	}
	names, err := l.StaticNames()
	if err != nil {
		t.Fatalf("StaticNames() error: %v", err)
	}
	if want := []string{"logo.svg", "site.css"}; !reflect.DeepEqual(names, want) {
		t.Errorf("StaticNames() = %v, want %v", names, want)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	writeAsset(t, outside, "secret.css", "secret")

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "static"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(base, "static", "leak.css")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	l, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}
	if _, err := l.LoadStatic("leak.css"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStatic(leak.css) error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestResolver - Custom-first fallback
// ---------------------------------------------------------------------------

func TestResolver(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver("")
		if err != nil {
			t.Fatalf("NewResolver() error: %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("HasCustomLoader() = true")
		}
		if _, err := LoadTemplateSet(r); err != nil {
			t.Errorf("LoadTemplateSet() error: %v", err)
		}
	})

	t.Run("custom overrides and extends", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		writeAsset(t, base, "templates/post.html", `{{define "content"}}custom post{{end}}`)
		writeAsset(t, base, "static/site.css", "custom{}")
		writeAsset(t, base, "static/logo.svg", "<svg/>")

		r, err := NewResolver(base)
		if err != nil {
			t.Fatalf("NewResolver() error: %v", err)
		}

		ts, err := LoadTemplateSet(r)
		if err != nil {
			t.Fatalf("LoadTemplateSet() error: %v", err)
		}
		if !strings.Contains(ts.Pages[PostTemplate], "custom post") {
			t.Error("custom post template not used")
		}
		if !strings.Contains(ts.Pages[HomeTemplate], "recent posts") {
			t.Error("home template did not fall back to embedded")
		}

		if css, _ := r.LoadStatic("site.css"); string(css) != "custom{}" {
			t.Errorf("LoadStatic(site.css) = %q", css)
		}
		if js, err := r.LoadStatic("copy.js"); err != nil || len(js) == 0 {
			t.Errorf("LoadStatic(copy.js) fallback failed: %v", err)
		}

		names, err := r.StaticNames()
		if err != nil {
			t.Fatalf("StaticNames() error: %v", err)
		}
		if want := []string{"copy.js", "logo.svg", "site.css", "viewer.js"}; !reflect.DeepEqual(names, want) {
			t.Errorf("StaticNames() = %v, want %v", names, want)
		}
	})

	t.Run("invalid name does not fall back", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewResolver() error: %v", err)
		}
		if _, err := r.LoadTemplate("../layout"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadTemplate() error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("invalid base path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewResolver(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

// stubLoader serves a fixed set of templates.
type stubLoader struct {
	templates map[string]string
}

func (s stubLoader) LoadTemplate(name string) (string, error) {
	if src, ok := s.templates[name]; ok {
		return src, nil
	}
	return "", ErrTemplateNotFound
}

func (stubLoader) LoadStatic(string) ([]byte, error) { return nil, ErrStaticNotFound }
func (stubLoader) StaticNames() ([]string, error)    { return nil, nil }

func TestLoadTemplateSet_Incomplete(t *testing.T) {
	t.Parallel()

	_, err := LoadTemplateSet(stubLoader{templates: map[string]string{LayoutTemplate: "x", HomeTemplate: "y"}})
	if !errors.Is(err, ErrIncompleteTemplateSet) {
		t.Fatalf("LoadTemplateSet() error = %v, want ErrIncompleteTemplateSet", err)
	}
	if !strings.Contains(err.Error(), "about.html") {
		t.Errorf("error does not name the missing template: %v", err)
	}
}
