package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustParseURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	assert.NoError(t, err)
	return u
}

func TestInsertionDirConstructedCorrectly(t *testing.T) {
	target := "https://thema.ai/foobar"
	captured := time.Date(2024, 1, 1, 12, 13, 14, 0, time.UTC)

	tests := []struct {
		name  string
		query InsertionQuery
		dir   string
	}{
		{"head", Head(mustParseURL(t, target), captured), "head/2024/01"},
		{"head metadata", HeadMetadata(mustParseURL(t, target), captured), "head-metadata/2024/01"},
		{"get", Get(mustParseURL(t, target), captured), "get/2024/01"},
		{"get metadata", GetMetadata(mustParseURL(t, target), captured), "get-metadata/2024/01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dir, tt.query.Dir())
		})
	}
}

func TestInsertionDirUsesUTC(t *testing.T) {
	// 2023-12-31T23:30:00-02:00 is 2024-01-01T01:30:00Z.
	zone := time.FixedZone("minus-two", -2*60*60)
	captured := time.Date(2023, 12, 31, 23, 30, 0, 0, zone)

	q := Get(mustParseURL(t, "https://thema.ai"), captured)
	assert.Equal(t, "get/2024/01", q.Dir())
}
