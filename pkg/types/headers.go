package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Header is one response header: a key and its text value.
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered key-to-text map of response headers. The canonical
// stored form is JSON-object text with keys in this order; Go maps drop
// ordering, so the slice is the in-memory representation.
type Headers []Header

// MarshalJSON encodes the headers as a JSON object, preserving order.
func (h Headers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, hdr := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(hdr.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(hdr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into ordered headers. Anything other
// than an object with text values fails with ErrMalformedHeaders.
func (h *Headers) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHeaders, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: got %v", ErrMalformedHeaders, tok)
	}

	var out Headers
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedHeaders, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: non-string key %v", ErrMalformedHeaders, keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedHeaders, err)
		}
		val, ok := valTok.(string)
		if !ok {
			return fmt.Errorf("%w: header %q has non-text value", ErrMalformedHeaders, key)
		}
		out = append(out, Header{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHeaders, err)
	}

	*h = out
	return nil
}
