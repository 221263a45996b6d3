package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/mesh-intelligence/webindex/pkg/paths"
	"github.com/mesh-intelligence/webindex/pkg/query"
	"github.com/mesh-intelligence/webindex/pkg/types"
)

// filter is the record-level predicate a retrieval query decodes to. Nil
// fields mean unconstrained. Time bounds follow the stored second precision.
type filter struct {
	url       string
	exact     *time.Time
	notBefore *time.Time
	notAfter  *time.Time
	calibre   *uint8
	strict    bool
}

func queryFilter(q query.Query) (types.RecordType, filter, error) {
	switch q := q.(type) {
	case query.Deterministic:
		ts := q.Timestamp
		return q.Type, filter{url: q.URL.String(), exact: &ts}, nil
	case query.Simple:
		c := q.Calibre
		return q.Type, filter{url: q.URL.String(), calibre: &c, strict: q.CalibreStrict}, nil
	case query.TimeBounded:
		c := q.Calibre
		nb, na := q.NotBefore, q.NotAfter
		return q.Type, filter{url: q.URL.String(), notBefore: &nb, notAfter: &na, calibre: &c, strict: q.CalibreStrict}, nil
	default:
		return 0, filter{}, fmt.Errorf("query %T has no retrieval plan: %w", q, types.ErrUnrecognizedQuery)
	}
}

func (f filter) matchTime(ts time.Time) bool {
	if f.exact != nil && types.FormatTimestamp(ts) != types.FormatTimestamp(*f.exact) {
		return false
	}
	if f.notBefore != nil && ts.Before(f.notBefore.UTC().Truncate(time.Second)) {
		return false
	}
	if f.notAfter != nil && !ts.Before(f.notAfter.UTC().Truncate(time.Second)) {
		return false
	}
	return true
}

func (f filter) matchCalibre(c uint8) bool {
	if f.calibre == nil {
		return true
	}
	if f.strict {
		return c == *f.calibre
	}
	return c >= *f.calibre
}

func (f filter) matchGet(r types.GetResponse) bool {
	return r.URL.String() == f.url && f.matchTime(r.Timestamp) && f.matchCalibre(r.FetcherCalibre)
}

func (f filter) matchHead(r types.HeadResponse) bool {
	return r.URL.String() == f.url && f.matchTime(r.Timestamp) && f.matchCalibre(r.FetcherCalibre)
}

// Metadata rows carry no capture time or calibre, so only the URL narrows.
func (f filter) matchMetadata(r types.Metadata) bool {
	return r.URL.String() == f.url
}

// GetResponses retrieves the stored GET responses matching q. The query must
// target the get kind.
func (s *Store) GetResponses(ctx context.Context, q query.Query) ([]types.GetResponse, error) {
	kind, f, err := queryFilter(q)
	if err != nil {
		return nil, err
	}
	if kind != types.RecordGet {
		return nil, fmt.Errorf("query targets %s, want get: %w", kind, types.ErrInvalidRecordType)
	}

	keys, err := s.candidateKeys(ctx, q, kind)
	if err != nil {
		return nil, err
	}

	var out []types.GetResponse
	for _, key := range keys {
		body, err := s.download(ctx, key)
		if err != nil {
			if isNoSuchKey(err) {
				s.log.Warn("journaled object is gone", "key", key)
				continue
			}
			return nil, err
		}
		rows, err := unmarshalRows[getRow](body)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		records, err := getResponsesFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		for _, r := range records {
			if f.matchGet(r) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// HeadResponses retrieves the stored HEAD responses matching q.
func (s *Store) HeadResponses(ctx context.Context, q query.Query) ([]types.HeadResponse, error) {
	kind, f, err := queryFilter(q)
	if err != nil {
		return nil, err
	}
	if kind != types.RecordHead {
		return nil, fmt.Errorf("query targets %s, want head: %w", kind, types.ErrInvalidRecordType)
	}

	keys, err := s.candidateKeys(ctx, q, kind)
	if err != nil {
		return nil, err
	}

	var out []types.HeadResponse
	for _, key := range keys {
		body, err := s.download(ctx, key)
		if err != nil {
			if isNoSuchKey(err) {
				s.log.Warn("journaled object is gone", "key", key)
				continue
			}
			return nil, err
		}
		rows, err := unmarshalRows[headRow](body)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		records, err := headResponsesFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		for _, r := range records {
			if f.matchHead(r) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// Metadata retrieves the stored retrieval metadata matching q. The query
// must target one of the metadata kinds. Time bounds narrow the scanned
// partitions only; metadata rows themselves carry no capture time.
func (s *Store) Metadata(ctx context.Context, q query.Query) ([]types.Metadata, error) {
	kind, f, err := queryFilter(q)
	if err != nil {
		return nil, err
	}
	if _, err := kind.MetadataType(); err != nil {
		return nil, fmt.Errorf("query targets %s, want a metadata kind: %w", kind, types.ErrInvalidRecordType)
	}

	keys, err := s.candidateKeys(ctx, q, kind)
	if err != nil {
		return nil, err
	}

	var out []types.Metadata
	for _, key := range keys {
		body, err := s.download(ctx, key)
		if err != nil {
			if isNoSuchKey(err) {
				s.log.Warn("journaled object is gone", "key", key)
				continue
			}
			return nil, err
		}
		rows, err := unmarshalRows[metadataRow](body)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		records, err := metadataFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		for _, r := range records {
			if f.matchMetadata(r) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// Exists answers each query with a pointer: true or false when the store can
// decide, nil when it cannot. A deterministic query is decided through the
// journal; without one, or when the journal has never seen the request id,
// the record may still have been written elsewhere, so the answer is
// unknown rather than false.
func (s *Store) Exists(ctx context.Context, queries []query.Query) ([]*bool, error) {
	out := make([]*bool, len(queries))
	for i, q := range queries {
		switch q := q.(type) {
		case query.Deterministic:
			if s.manifest == nil {
				continue
			}
			found, err := s.manifest.Lookup(q)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				continue
			}
			ok, err := s.objectExists(ctx, found[0].String())
			if err != nil {
				return nil, err
			}
			out[i] = &ok
		case query.Simple, query.TimeBounded:
			n, err := s.matchCount(ctx, q)
			if err != nil {
				return nil, err
			}
			ok := n > 0
			out[i] = &ok
		default:
			return nil, fmt.Errorf("query %T has no retrieval plan: %w", q, types.ErrUnrecognizedQuery)
		}
	}
	return out, nil
}

func (s *Store) matchCount(ctx context.Context, q query.Query) (int, error) {
	kind, _, err := queryFilter(q)
	if err != nil {
		return 0, err
	}
	switch kind {
	case types.RecordGet:
		records, err := s.GetResponses(ctx, q)
		return len(records), err
	case types.RecordHead:
		records, err := s.HeadResponses(ctx, q)
		return len(records), err
	case types.RecordGetMetadata, types.RecordHeadMetadata:
		records, err := s.Metadata(ctx, q)
		return len(records), err
	default:
		return 0, fmt.Errorf("record kind %d: %w", int(kind), types.ErrInvalidRecordType)
	}
}

// candidateKeys narrows a query to the object keys that could hold matching
// records. A deterministic query resolves through the journal when one is
// attached and falls back to its single month partition otherwise; a
// time-bounded query scans the month partitions covering its window; a
// simple query scans every partition of its kind.
func (s *Store) candidateKeys(ctx context.Context, q query.Query, kind types.RecordType) ([]string, error) {
	switch q := q.(type) {
	case query.Deterministic:
		if s.manifest != nil {
			found, err := s.manifest.Lookup(q)
			if err != nil {
				return nil, err
			}
			if len(found) > 0 {
				keys := make([]string, len(found))
				for i, p := range found {
					keys[i] = p.String()
				}
				return keys, nil
			}
		}
		d, err := s.extractor.Domain(q.URL)
		if err != nil {
			return nil, err
		}
		dir := query.NewInsertionQuery(kind, q.URL, q.Timestamp).Dir()
		return s.listPartition(ctx, dir, d.String())
	case query.TimeBounded:
		d, err := s.extractor.Domain(q.URL)
		if err != nil {
			return nil, err
		}
		var keys []string
		for _, month := range monthsBetween(q.NotBefore, q.NotAfter) {
			dir := fmt.Sprintf("%s/%d/%02d", kind.Dir(), month.Year(), int(month.Month()))
			partition, err := s.listPartition(ctx, dir, d.String())
			if err != nil {
				return nil, err
			}
			keys = append(keys, partition...)
		}
		return keys, nil
	case query.Simple:
		d, err := s.extractor.Domain(q.URL)
		if err != nil {
			return nil, err
		}
		return s.listKind(ctx, kind, d.String())
	default:
		return nil, fmt.Errorf("query %T has no retrieval plan: %w", q, types.ErrUnrecognizedQuery)
	}
}

// listPartition lists the objects of one domain inside one month partition.
func (s *Store) listPartition(ctx context.Context, dir, filename string) ([]string, error) {
	var keys []string
	prefix := dir + "/" + filename + "."
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing %s: %w", prefix, obj.Err)
		}
		if keyDir, keyFilename, ok := splitKey(obj.Key); ok && keyDir == dir && keyFilename == filename {
			keys = append(keys, obj.Key)
		}
	}
	return keys, nil
}

// listKind lists the objects of one domain across every partition of a kind.
func (s *Store) listKind(ctx context.Context, kind types.RecordType, filename string) ([]string, error) {
	var keys []string
	prefix := kind.Dir() + "/"
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing %s: %w", prefix, obj.Err)
		}
		if _, keyFilename, ok := splitKey(obj.Key); ok && keyFilename == filename {
			keys = append(keys, obj.Key)
		}
	}
	return keys, nil
}

// splitKey takes an object key "{dir}/{filename}.{marker}.parquet" apart.
// The marker never contains dots, so the filename is everything up to the
// second-to-last dot; domains with dots survive the split.
func splitKey(key string) (dir, filename string, ok bool) {
	slash := strings.LastIndex(key, "/")
	if slash < 0 {
		return "", "", false
	}
	dir, rest := key[:slash], key[slash+1:]
	rest, found := strings.CutSuffix(rest, "."+paths.SuffixParquet)
	if !found {
		return "", "", false
	}
	dot := strings.LastIndex(rest, ".")
	if dot <= 0 {
		return "", "", false
	}
	return dir, rest[:dot], true
}

// monthsBetween enumerates the UTC months whose partitions can hold records
// captured in [notBefore, notAfter). The month containing notAfter is
// included; the record-level filter trims the excess.
func monthsBetween(notBefore, notAfter time.Time) []time.Time {
	nb, na := notBefore.UTC(), notAfter.UTC()
	if na.Before(nb) {
		return nil
	}
	var months []time.Time
	for m := time.Date(nb.Year(), nb.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(na); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

func (s *Store) download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return body, nil
}

func (s *Store) objectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", key, err)
	}
	return true, nil
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	return errors.As(err, &resp) && resp.Code == "NoSuchKey"
}
