// Package yamlutil decodes size-capped YAML documents with goccy/go-yaml.
package yamlutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps decoded input (1MB).
var MaxInputSize = 1 << 20

var (
	ErrEmpty          = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Option tightens decoding.
type Option func(*[]yaml.DecodeOption)

// Strict rejects keys that do not map to a struct field.
func Strict() Option {
	return func(opts *[]yaml.DecodeOption) {
		*opts = append(*opts, yaml.Strict())
	}
}

// Decode parses data into v.
func Decode(data []byte, v any, opts ...Option) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}

	var decodeOpts []yaml.DecodeOption
	for _, opt := range opts {
		opt(&decodeOpts)
	}
	if err := yaml.UnmarshalWithOptions(data, v, decodeOpts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeReader reads at most MaxInputSize bytes from r and decodes them.
func DecodeReader(r io.Reader, v any, opts ...Option) error {
	data, err := io.ReadAll(io.LimitReader(r, int64(MaxInputSize)+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading input: %w", err)
	}
	return Decode(data, v, opts...)
}

// DecodeFile decodes the YAML file at path. The returned error wraps
// os.ErrNotExist when the file is missing.
func DecodeFile(path string, v any, opts ...Option) error {
	f, err := os.Open(path) // #nosec G304 -- path is chosen by the user
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeReader(f, v, opts...)
}
