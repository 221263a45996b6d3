package manifest

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/webindex/pkg/paths"
	"github.com/mesh-intelligence/webindex/pkg/query"
	"github.com/mesh-intelligence/webindex/pkg/types"
)

func mustParseURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	assert.NoError(t, err)
	return u
}

func TestRecordAndLookup(t *testing.T) {
	m, err := Open(t.TempDir())
	assert.NoError(t, err)
	defer m.Close()

	id := types.NewRequestID()
	lookup := query.Deterministic{
		Type:      types.RecordGet,
		URL:       mustParseURL(t, "https://thema.ai/a"),
		Timestamp: time.Date(2024, 1, 1, 12, 13, 14, 0, time.UTC),
		RequestID: id,
	}
	physical := paths.NewPhysicalPathDefault(paths.NewLogicalPath("get/2024/01", "thema.ai", "parquet"))

	err = m.Record([]Entry{{Lookup: lookup, PhysicalPath: physical, UploadedAt: time.Now()}})
	assert.NoError(t, err)

	found, err := m.Lookup(lookup)
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, physical, found[0])
}

func TestLookupMissesAreEmpty(t *testing.T) {
	m, err := Open(t.TempDir())
	assert.NoError(t, err)
	defer m.Close()

	found, err := m.Lookup(query.Deterministic{
		Type:      types.RecordHead,
		URL:       mustParseURL(t, "https://thema.ai/"),
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RequestID: types.NewRequestID(),
	})
	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestLookupMatchesAllCoordinates(t *testing.T) {
	m, err := Open(t.TempDir())
	assert.NoError(t, err)
	defer m.Close()

	captured := time.Date(2024, 1, 1, 12, 13, 14, 0, time.UTC)
	id := types.NewRequestID()
	lookup := query.Deterministic{
		Type:      types.RecordGet,
		URL:       mustParseURL(t, "https://thema.ai/a"),
		Timestamp: captured,
		RequestID: id,
	}
	physical := paths.NewPhysicalPathDefault(paths.NewLogicalPath("get/2024/01", "thema.ai", "parquet"))
	assert.NoError(t, m.Record([]Entry{{Lookup: lookup, PhysicalPath: physical, UploadedAt: time.Now()}}))

	variants := []query.Deterministic{
		{Type: types.RecordHead, URL: lookup.URL, Timestamp: captured, RequestID: id},
		{Type: types.RecordGet, URL: mustParseURL(t, "https://thema.ai/b"), Timestamp: captured, RequestID: id},
		{Type: types.RecordGet, URL: lookup.URL, Timestamp: captured.Add(time.Second), RequestID: id},
		{Type: types.RecordGet, URL: lookup.URL, Timestamp: captured, RequestID: types.NewRequestID()},
	}
	for _, v := range variants {
		found, err := m.Lookup(v)
		assert.NoError(t, err)
		assert.Empty(t, found, v.Encode())
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()

	m, err := Open(dir)
	assert.NoError(t, err)

	lookup := query.Deterministic{
		Type:      types.RecordGetMetadata,
		URL:       mustParseURL(t, "https://local.nhs.uk/"),
		Timestamp: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		RequestID: types.NewRequestID(),
	}
	physical := paths.NewPhysicalPathDefault(paths.NewLogicalPath("get-metadata/2024/02", "local.nhs.uk", "parquet"))
	assert.NoError(t, m.Record([]Entry{{Lookup: lookup, PhysicalPath: physical, UploadedAt: time.Now()}}))
	assert.NoError(t, m.Close())

	reopened, err := Open(dir)
	assert.NoError(t, err)
	defer reopened.Close()

	found, err := reopened.Lookup(lookup)
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, physical, found[0])
}

func TestCloseIsIdempotent(t *testing.T) {
	m, err := Open(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}
