// Package dateutil formats and parses post dates.
//
// Display formats use tokens (YYYY, YY, MMMM, MMM, MM, M, DD, D) or a preset
// name. Text inside brackets is kept literally: "[Posted] MMM D" renders
// "Posted Jan 2".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidDateFormat indicates an invalid display format.
	ErrInvalidDateFormat = errors.New("invalid date format")
	// ErrInvalidDate indicates a frontmatter date in no accepted layout.
	ErrInvalidDate = errors.New("invalid date")
)

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// Presets are named display formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"long":     "MMMM D, YYYY",
	"short":    "MMM D, YYYY",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
}

// Longest tokens first so MMMM is not read as MM MM.
var tokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Layout converts a display format or preset name to a Go time layout.
func Layout(format string) (string, error) {
	if preset, ok := Presets[strings.ToLower(strings.TrimSpace(format))]; ok {
		format = preset
	}
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	rest := format
	for rest != "" {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(literal)
			rest = after
			continue
		}
		n := writeToken(&b, rest)
		rest = rest[n:]
	}
	return b.String(), nil
}

// writeToken writes the layout for the token at the start of s, or the
// first byte literally, and returns how many bytes were consumed.
func writeToken(b *strings.Builder, s string) int {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.layout)
			return len(t.token)
		}
	}
	b.WriteByte(s[0])
	return 1
}

// Format renders t with a display format or preset.
func Format(t time.Time, format string) (string, error) {
	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// Layouts accepted by Parse, tried in order.
var parseLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// Parse reads a frontmatter date. Dates without a zone are UTC.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (use YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)", ErrInvalidDate, raw)
}
