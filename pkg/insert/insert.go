// Package insert groups pending insertions into per-partition batches.
// Batching decouples physical file granularity (domain, month, kind) from
// request-level identity: every record in a batch shares one RequestID,
// and each record keeps a deterministic query for later point-lookup.
package insert

import (
	"fmt"

	"github.com/mesh-intelligence/webindex/pkg/domain"
	"github.com/mesh-intelligence/webindex/pkg/paths"
	"github.com/mesh-intelligence/webindex/pkg/query"
	"github.com/mesh-intelligence/webindex/pkg/table"
	"github.com/mesh-intelligence/webindex/pkg/types"
)

// Request is one caller-supplied insertion: a destination query and the
// records bound for it.
type Request[T any] struct {
	Query query.InsertionQuery
	Data  []T
}

// PreparedBatch is one partition's worth of insertions, ready for the
// upload collaborator. Records and Lookups are index-aligned.
type PreparedBatch[T any] struct {
	// Records are the batch members, each wrapped with the one RequestID
	// generated for this batch.
	Records []types.Persisted[T]

	// Path is the partition the batch lands in; the uploader derives the
	// physical path from it at handoff time.
	Path paths.LogicalPath

	// Lookups name each record exactly for later retrieval:
	// {record_type, url, timestamp, request_id}.
	Lookups []query.Deterministic

	// Table is the columnar form of the batch, in record order.
	Table *table.Table
}

// Prepare resolves every request's logical path, groups requests landing in
// the same partition, and emits one batch per partition. Grouping is by
// path value, not declaration order; within a group, record order is the
// first-seen order among contributing requests. Any path-resolution
// failure aborts the whole call with no partial batches; callers that need
// partial success must pre-resolve paths themselves.
func Prepare[T any](requests []Request[T], extractor *domain.Extractor, codec types.Codec[T]) ([]PreparedBatch[T], error) {
	type member struct {
		data   T
		source query.InsertionQuery
	}

	groups := make(map[paths.LogicalPath][]member)
	var order []paths.LogicalPath

	for _, req := range requests {
		logical, err := paths.Resolve(req.Query, extractor)
		if err != nil {
			return nil, fmt.Errorf("resolving path for %s: %w", req.Query.URL, err)
		}
		if _, seen := groups[logical]; !seen {
			order = append(order, logical)
			groups[logical] = []member{}
		}
		for _, record := range req.Data {
			groups[logical] = append(groups[logical], member{data: record, source: req.Query})
		}
	}

	batches := make([]PreparedBatch[T], 0, len(order))
	for _, logical := range order {
		members := groups[logical]
		records := make([]T, len(members))
		for i, m := range members {
			records[i] = m.data
		}

		id := types.NewRequestID()
		lookups := make([]query.Deterministic, len(members))
		for i, m := range members {
			lookups[i] = query.Deterministic{
				Type:      m.source.Type,
				URL:       m.source.URL,
				Timestamp: m.source.Timestamp,
				RequestID: id,
			}
		}

		tbl, err := codec.ToTable(records)
		if err != nil {
			return nil, fmt.Errorf("building table for %s: %w", logical, err)
		}

		batches = append(batches, PreparedBatch[T]{
			Records: types.WrapWithID(records, id),
			Path:    logical,
			Lookups: lookups,
			Table:   tbl,
		})
	}
	return batches, nil
}
