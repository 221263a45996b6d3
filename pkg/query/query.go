package query

import (
	"net/url"
	"time"

	"github.com/mesh-intelligence/webindex/pkg/types"
)

// Query is the closed set of retrieval query shapes. A given URI decodes
// to at most one of them.
type Query interface {
	// Encode renders the canonical URI form of the query.
	Encode() string

	queryVariant()
}

// Deterministic names one exact historical record by kind, target URL,
// capture time, and the RequestID of the batch that stored it.
type Deterministic struct {
	Type      types.RecordType
	URL       *url.URL
	Timestamp time.Time
	RequestID types.RequestID
}

// Simple selects records for a URL at or above a fetcher calibre.
// CalibreStrict narrows the comparison from at-least to exact.
type Simple struct {
	Type          types.RecordType
	URL           *url.URL
	Calibre       uint8
	CalibreStrict bool
}

// TimeBounded is Simple restricted to the capture window
// [NotBefore, NotAfter).
type TimeBounded struct {
	Type          types.RecordType
	URL           *url.URL
	NotBefore     time.Time
	NotAfter      time.Time
	Calibre       uint8
	CalibreStrict bool
}

func (Deterministic) queryVariant() {}
func (Simple) queryVariant()        {}
func (TimeBounded) queryVariant()   {}
