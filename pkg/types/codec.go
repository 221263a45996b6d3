package types

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/mesh-intelligence/webindex/pkg/table"
)

// Codec is the bijection between a record kind and its columnar table
// representation. FromTable(ToTable(xs)) == xs for every non-empty xs,
// order preserved.
type Codec[T any] interface {
	ToTable(records []T) (*table.Table, error)
	FromTable(t *table.Table) ([]T, error)
}

// FormatTimestamp renders a capture time in the stored form: RFC3339 UTC,
// second precision, explicit UTC designator. Sub-second precision is
// discarded; this truncation is a deliberate, documented lossy step.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// ParseTimestamp parses the stored timestamp form. Any other form,
// including offsets or sub-second digits, fails with ErrMalformedTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrMalformedTimestamp)
	}
	t = t.UTC()
	if t.Format(time.RFC3339) != s {
		return time.Time{}, fmt.Errorf("%q is not second-precision UTC: %w", s, ErrMalformedTimestamp)
	}
	return t, nil
}

// parseRecordURL parses a stored canonical URL string.
func parseRecordURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s, ErrMalformedURL)
	}
	return u, nil
}

// headersToText renders headers as canonical JSON-object text, or nil when
// the headers are absent. Absence is a null cell, never the text "null".
func headersToText(h Headers) (*string, error) {
	if h == nil {
		return nil, nil
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	text := string(raw)
	return &text, nil
}

// headersFromText parses canonical JSON-object text into ordered headers.
func headersFromText(text *string) (Headers, error) {
	if text == nil {
		return nil, nil
	}
	var h Headers
	if err := json.Unmarshal([]byte(*text), &h); err != nil {
		return nil, err
	}
	if h == nil {
		h = Headers{}
	}
	return h, nil
}

// Required-column helpers. A null cell in a required column is a schema
// violation, not a recoverable row error.

func requiredStrings(t *table.Table, name string) ([]string, error) {
	vals, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		if v == nil {
			return nil, fmt.Errorf("column %q row %d is null: %w", name, i, table.ErrSchemaMismatch)
		}
		out[i] = *v
	}
	return out, nil
}

func requiredUint8s(t *table.Table, name string) ([]uint8, error) {
	vals, err := t.Uint8s(name)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(vals))
	for i, v := range vals {
		if v == nil {
			return nil, fmt.Errorf("column %q row %d is null: %w", name, i, table.ErrSchemaMismatch)
		}
		out[i] = *v
	}
	return out, nil
}

func requiredUint16s(t *table.Table, name string) ([]uint16, error) {
	vals, err := t.Uint16s(name)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, len(vals))
	for i, v := range vals {
		if v == nil {
			return nil, fmt.Errorf("column %q row %d is null: %w", name, i, table.ErrSchemaMismatch)
		}
		out[i] = *v
	}
	return out, nil
}

func requiredBools(t *table.Table, name string) ([]bool, error) {
	vals, err := t.Bools(name)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(vals))
	for i, v := range vals {
		if v == nil {
			return nil, fmt.Errorf("column %q row %d is null: %w", name, i, table.ErrSchemaMismatch)
		}
		out[i] = *v
	}
	return out, nil
}
