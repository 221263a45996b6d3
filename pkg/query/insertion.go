// Package query defines the insertion request and the three retrieval
// query shapes, with their canonical URI encoding.
package query

import (
	"fmt"
	"net/url"
	"time"

	"github.com/mesh-intelligence/webindex/pkg/types"
)

// InsertionQuery describes where one record belongs: its kind, target URL,
// and capture time. It is ephemeral and consumed once.
type InsertionQuery struct {
	Type      types.RecordType
	URL       *url.URL
	Timestamp time.Time
}

// NewInsertionQuery builds an insertion query for the given record kind.
func NewInsertionQuery(t types.RecordType, u *url.URL, ts time.Time) InsertionQuery {
	return InsertionQuery{Type: t, URL: u, Timestamp: ts}
}

// Get builds an insertion query for a GET response.
func Get(u *url.URL, ts time.Time) InsertionQuery {
	return NewInsertionQuery(types.RecordGet, u, ts)
}

// Head builds an insertion query for a HEAD response.
func Head(u *url.URL, ts time.Time) InsertionQuery {
	return NewInsertionQuery(types.RecordHead, u, ts)
}

// GetMetadata builds an insertion query for GET retrieval metadata.
func GetMetadata(u *url.URL, ts time.Time) InsertionQuery {
	return NewInsertionQuery(types.RecordGetMetadata, u, ts)
}

// HeadMetadata builds an insertion query for HEAD retrieval metadata.
func HeadMetadata(u *url.URL, ts time.Time) InsertionQuery {
	return NewInsertionQuery(types.RecordHeadMetadata, u, ts)
}

// Dir returns the storage directory for this insertion:
// "{type_dir}/{year}/{month:02}" in UTC.
func (q InsertionQuery) Dir() string {
	ts := q.Timestamp.UTC()
	return fmt.Sprintf("%s/%d/%02d", q.Type.Dir(), ts.Year(), int(ts.Month()))
}
