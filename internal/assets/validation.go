package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a template name is safe for use as a
// filename. Returns ErrInvalidAssetName if the name is empty or contains
// path separators or dots.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// ValidateStaticName checks a static file name: a single path element with
// an extension, not hidden.
func ValidateStaticName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, "/\\"), strings.Contains(name, ".."), strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	case !strings.Contains(name, "."):
		return fmt.Errorf("%w: %q has no extension", ErrInvalidAssetName, name)
	}
	return nil
}
