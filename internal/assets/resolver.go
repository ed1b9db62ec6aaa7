package assets

import (
	"errors"
	"sort"
)

// Resolver combines a custom and the embedded loader. When a custom loader
// is configured it is tried first, falling back to embedded assets that it
// does not provide.
type Resolver struct {
	custom   Loader // nil if no custom path configured
	embedded Loader
}

// NewResolver creates a Resolver. An empty customBasePath uses embedded
// assets only; otherwise the path must be a readable directory.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadTemplate loads a template, custom first.
func (r *Resolver) LoadTemplate(name string) (string, error) {
	if r.custom != nil {
		content, err := r.custom.LoadTemplate(name)
		if err == nil || !isNotFoundError(err) {
			return content, err
		}
	}
	return r.embedded.LoadTemplate(name)
}

// LoadStatic loads a static file, custom first.
func (r *Resolver) LoadStatic(name string) ([]byte, error) {
	if r.custom != nil {
		content, err := r.custom.LoadStatic(name)
		if err == nil || !isNotFoundError(err) {
			return content, err
		}
	}
	return r.embedded.LoadStatic(name)
}

// StaticNames merges embedded and custom static file names.
func (r *Resolver) StaticNames() ([]string, error) {
	names, err := r.embedded.StaticNames()
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return names, nil
	}

	extra, err := r.custom.StaticNames()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range extra {
		if !seen[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

// HasCustomLoader reports whether a custom base path is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// isNotFoundError reports whether err means the asset does not exist, as
// opposed to a validation or I/O failure that must not fall back.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) || errors.Is(err, ErrStaticNotFound)
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
