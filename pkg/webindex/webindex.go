// Package webindex names the collaborator contracts of the index: the
// uploader that persists prepared batches and the retriever that answers
// queries. The packages under pkg/ compute paths, batches, and tables
// without I/O; implementations of these interfaces own the I/O.
package webindex

import (
	"context"

	"github.com/mesh-intelligence/webindex/pkg/paths"
	"github.com/mesh-intelligence/webindex/pkg/query"
	"github.com/mesh-intelligence/webindex/pkg/table"
	"github.com/mesh-intelligence/webindex/pkg/types"
)

// Uploader persists one serialized batch per call. Implementations must
// derive the physical path from the logical path at handoff time, never
// earlier, so that concurrent uploads to one partition cannot collide.
type Uploader interface {
	Upload(ctx context.Context, tbl *table.Table, logical paths.LogicalPath, kind types.RecordType, lookups []query.Deterministic) (paths.PhysicalPath, error)
}

// Retriever answers retrieval queries against the stored index.
type Retriever interface {
	// GetResponses returns the stored GET responses matching q.
	GetResponses(ctx context.Context, q query.Query) ([]types.GetResponse, error)

	// HeadResponses returns the stored HEAD responses matching q.
	HeadResponses(ctx context.Context, q query.Query) ([]types.HeadResponse, error)

	// Metadata returns the stored retrieval metadata matching q.
	Metadata(ctx context.Context, q query.Query) ([]types.Metadata, error)

	// Exists reports, per query, whether a matching record is stored.
	// A nil element means the retriever cannot decide for that query.
	Exists(ctx context.Context, queries []query.Query) ([]*bool, error)
}
