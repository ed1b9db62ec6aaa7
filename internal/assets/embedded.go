package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static/*
var static embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTemplate loads an embedded HTML template by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}

// LoadStatic loads an embedded static file.
func (e *EmbeddedLoader) LoadStatic(name string) ([]byte, error) {
	if err := ValidateStaticName(name); err != nil {
		return nil, err
	}

	content, err := static.ReadFile("static/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrStaticNotFound, name)
	}
	return content, nil
}

// StaticNames lists the embedded static files.
func (e *EmbeddedLoader) StaticNames() ([]string, error) {
	entries, err := fs.ReadDir(static, "static")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
