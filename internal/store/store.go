// Package store persists prepared batches to an S3-compatible object store
// and reads them back. One uploaded object per batch; every object key is a
// physical path whose marker is drawn immediately before the put, so two
// uncoordinated writers can never clobber each other's uploads.
package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mesh-intelligence/webindex/internal/manifest"
	"github.com/mesh-intelligence/webindex/pkg/domain"
	"github.com/mesh-intelligence/webindex/pkg/insert"
	"github.com/mesh-intelligence/webindex/pkg/paths"
	"github.com/mesh-intelligence/webindex/pkg/query"
	"github.com/mesh-intelligence/webindex/pkg/table"
	"github.com/mesh-intelligence/webindex/pkg/types"
	"github.com/mesh-intelligence/webindex/pkg/webindex"
)

var (
	_ webindex.Uploader  = (*Store)(nil)
	_ webindex.Retriever = (*Store)(nil)
)

const contentTypeParquet = "application/vnd.apache.parquet"

// Config carries the object-store connection settings.
type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Store is the persistence layer over one bucket.
type Store struct {
	client    *minio.Client
	bucket    string
	manifest  *manifest.Manifest
	extractor *domain.Extractor
	log       *slog.Logger
}

// Option configures optional collaborators on a Store.
type Option func(*Store)

// WithManifest attaches an upload journal. Journaled uploads make
// deterministic lookups answerable without partition scans.
func WithManifest(m *manifest.Manifest) Option {
	return func(s *Store) { s.manifest = m }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New connects to the object store described by cfg.
func New(cfg Config, opts ...Option) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object store at %s: %w", cfg.Endpoint, err)
	}

	s := &Store{
		client:    client,
		bucket:    cfg.Bucket,
		extractor: domain.NewExtractor(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload serializes the table under the kind's storage schema and puts it at
// a fresh physical path derived from logical. The marker is drawn here, at
// handoff, not earlier; callers hold only logical paths. When a journal is
// attached, the given lookups are recorded against the uploaded object.
//
// The physical path is returned even when journaling fails, since by then
// the object exists.
func (s *Store) Upload(ctx context.Context, tbl *table.Table, logical paths.LogicalPath, kind types.RecordType, lookups []query.Deterministic) (paths.PhysicalPath, error) {
	body, err := encodeTable(tbl, kind)
	if err != nil {
		return paths.PhysicalPath{}, fmt.Errorf("serializing %s: %w", logical, err)
	}

	physical := paths.NewPhysicalPathDefault(logical)
	sum := sha256.Sum256(body)

	_, err = s.client.PutObject(ctx, s.bucket, physical.String(), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  contentTypeParquet,
		UserMetadata: map[string]string{"Sha256": hex.EncodeToString(sum[:])},
	})
	if err != nil {
		return paths.PhysicalPath{}, fmt.Errorf("uploading %s: %w", physical, err)
	}

	s.log.Info("uploaded partition object",
		"path", physical.String(),
		"rows", tbl.NumRows(),
		"bytes", len(body),
	)

	if s.manifest != nil {
		entries := make([]manifest.Entry, len(lookups))
		now := time.Now().UTC()
		for i, l := range lookups {
			entries[i] = manifest.Entry{Lookup: l, PhysicalPath: physical, UploadedAt: now}
		}
		if err := s.manifest.Record(entries); err != nil {
			return physical, fmt.Errorf("journaling %s: %w", physical, err)
		}
	}
	return physical, nil
}

// UploadBatch uploads one prepared batch, inferring the record kind from the
// batch's partition directory.
func UploadBatch[T any](ctx context.Context, s *Store, batch insert.PreparedBatch[T]) (paths.PhysicalPath, error) {
	kind, err := partitionKind(batch.Path)
	if err != nil {
		return paths.PhysicalPath{}, err
	}
	return s.Upload(ctx, batch.Table, batch.Path, kind, batch.Lookups)
}

// partitionKind reads the record kind back out of a partition directory,
// whose first segment is always the kind's token.
func partitionKind(p paths.LogicalPath) (types.RecordType, error) {
	token, _, _ := strings.Cut(p.Dir, "/")
	kind, err := types.ParseRecordType(token)
	if err != nil {
		return 0, fmt.Errorf("partition %s: %w", p, err)
	}
	return kind, nil
}
