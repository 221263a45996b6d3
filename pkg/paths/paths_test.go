package paths

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/webindex/pkg/domain"
	"github.com/mesh-intelligence/webindex/pkg/query"
	"github.com/mesh-intelligence/webindex/pkg/types"
)

func TestLogicalPathString(t *testing.T) {
	p := NewLogicalPath("dir", "filename", "suffix")
	assert.Equal(t, "dir/filename.suffix", p.String())
}

func TestPhysicalPathString(t *testing.T) {
	p := NewPhysicalPath(NewLogicalPath("dir", "filename", "suffix"), "marker")
	assert.Equal(t, "dir/filename.marker.suffix", p.String())
}

func TestDefaultMarkerIsUUID(t *testing.T) {
	p := NewPhysicalPathDefault(NewLogicalPath("dir", "filename", "suffix"))

	_, err := uuid.Parse(p.Marker)
	assert.NoError(t, err)
}

func TestFreshMarkerEveryCall(t *testing.T) {
	logical := NewLogicalPath("dir", "filename", "suffix")

	first := NewPhysicalPathDefault(logical)
	second := NewPhysicalPathDefault(logical)

	assert.NotEqual(t, first.Marker, second.Marker)
}

func TestResolve(t *testing.T) {
	target, err := url.Parse("https://thema.ai")
	assert.NoError(t, err)
	q := query.Get(target, time.Date(2024, 1, 1, 12, 13, 14, 0, time.UTC))

	logical, err := Resolve(q, domain.NewExtractor())
	assert.NoError(t, err)
	assert.Equal(t, "get/2024/01/thema.ai.parquet", logical.String())
}

func TestResolvePropagatesExtractorErrors(t *testing.T) {
	target, err := url.Parse("http://192.168.1.1")
	assert.NoError(t, err)
	q := query.Get(target, time.Date(2024, 1, 1, 12, 13, 14, 0, time.UTC))

	_, err = Resolve(q, domain.NewExtractor())
	assert.ErrorIs(t, err, types.ErrNoRegisteredDomain)
}

func TestParseLogicalPathRoundTrip(t *testing.T) {
	tests := []LogicalPath{
		NewLogicalPath("get/2024/01", "thema.ai", "parquet"),
		NewLogicalPath("head-metadata/2023/12", "local.nhs.uk", "parquet"),
	}
	for _, p := range tests {
		parsed, err := ParseLogicalPath(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestParseLogicalPathRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "no-directory.parquet", "dir/nosuffix", "dir/.parquet"} {
		_, err := ParseLogicalPath(s)
		assert.Error(t, err, s)
	}
}
