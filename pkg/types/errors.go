package types

import "errors"

// Record-type and identity errors.
var (
	ErrInvalidRecordType = errors.New("record type outside the target subset")
	ErrInvalidRequestID  = errors.New("malformed request id")
)

// Field-level conversion errors. Each names the offending field; callers
// wrap them with the offending value.
var (
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrMalformedURL       = errors.New("malformed url")
	ErrMalformedHeaders   = errors.New("headers text is not a JSON object")
)

// Domain extraction errors. Extraction fails closed: no default domain is
// ever substituted.
var (
	ErrNoHost             = errors.New("url has no host")
	ErrNoRegisteredDomain = errors.New("host has no registered domain")
)

// ErrUnrecognizedQuery reports a query URI that decodes to no known variant.
var ErrUnrecognizedQuery = errors.New("unrecognized query")
