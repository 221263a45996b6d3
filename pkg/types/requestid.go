package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const requestIDPrefix = "request:"

// RequestID is the opaque, globally unique identity shared by every record
// in one insertion batch. It is an immutable value type; copying it is the
// sharing mechanism.
type RequestID struct {
	inner string
}

// NewRequestID generates a fresh request identity of the form
// "request:<uuid>".
func NewRequestID() RequestID {
	return RequestID{inner: requestIDPrefix + uuid.NewString()}
}

// ParseRequestID validates the textual form of a request identity.
func ParseRequestID(s string) (RequestID, error) {
	rest, ok := strings.CutPrefix(s, requestIDPrefix)
	if !ok {
		return RequestID{}, fmt.Errorf("%q: %w", s, ErrInvalidRequestID)
	}
	if _, err := uuid.Parse(rest); err != nil {
		return RequestID{}, fmt.Errorf("%q: %w", s, ErrInvalidRequestID)
	}
	return RequestID{inner: s}, nil
}

// String returns the textual form "request:<uuid>".
func (id RequestID) String() string { return id.inner }
