package store

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/webindex/pkg/types"
)

func mustParseURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	assert.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }

func fakeGetResponses(t *testing.T) []types.GetResponse {
	t.Helper()
	return []types.GetResponse{
		{
			URL:            mustParseURL(t, "https://thema.ai/a"),
			RequestURL:     mustParseURL(t, "https://thema.ai/a"),
			StatusCode:     200,
			Data:           []byte("<html></html>"),
			Headers:        types.Headers{{Key: "Server", Value: "nginx"}, {Key: "Age", Value: "0"}},
			Timestamp:      time.Date(2024, 1, 1, 12, 13, 14, 0, time.UTC),
			RetryAttempt:   0,
			IsFinal:        true,
			FetcherName:    "Fetch",
			FetcherVersion: "v1.2.3",
			FetcherCalibre: 3,
		},
		{
			// Non-final attempt: no body, no headers.
			URL:            mustParseURL(t, "https://thema.ai/b"),
			RequestURL:     mustParseURL(t, "https://thema.ai/b?lang=en"),
			StatusCode:     503,
			Timestamp:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			RetryAttempt:   1,
			FetcherName:    "Fetch",
			FetcherVersion: "v1.2.3",
			FetcherCalibre: 1,
		},
	}
}

func TestGetRowsRoundTrip(t *testing.T) {
	records := fakeGetResponses(t)

	rows, err := rowsFromGetResponses(records)
	assert.NoError(t, err)

	body, err := marshalRows(rows)
	assert.NoError(t, err)

	back, err := unmarshalRows[getRow](body)
	assert.NoError(t, err)

	decoded, err := getResponsesFromRows(back)
	assert.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestGetRowsKeepNullsNull(t *testing.T) {
	records := fakeGetResponses(t)

	rows, err := rowsFromGetResponses(records)
	assert.NoError(t, err)

	assert.NotNil(t, rows[0].Headers)
	assert.Nil(t, rows[1].Data)
	assert.Nil(t, rows[1].Headers)

	body, err := marshalRows(rows)
	assert.NoError(t, err)
	back, err := unmarshalRows[getRow](body)
	assert.NoError(t, err)

	assert.Nil(t, back[1].Data)
	assert.Nil(t, back[1].Headers)
}

func TestHeadRowsRoundTrip(t *testing.T) {
	records := []types.HeadResponse{
		{
			URL:            mustParseURL(t, "https://local.nhs.uk/"),
			RequestURL:     mustParseURL(t, "https://local.nhs.uk/"),
			StatusCode:     200,
			Headers:        types.Headers{{Key: "Content-Type", Value: "text/html"}},
			Timestamp:      time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
			IsFinal:        true,
			FetcherName:    "Fetch",
			FetcherVersion: "v1.2.3",
			FetcherCalibre: 2,
		},
	}

	rows, err := rowsFromHeadResponses(records)
	assert.NoError(t, err)
	body, err := marshalRows(rows)
	assert.NoError(t, err)
	back, err := unmarshalRows[headRow](body)
	assert.NoError(t, err)
	decoded, err := headResponsesFromRows(back)
	assert.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestMetadataRowsRoundTrip(t *testing.T) {
	records := []types.Metadata{
		{
			State:   types.StateSuccess,
			URL:     mustParseURL(t, "https://thema.ai/a"),
			Logs:    ptr("fetched in one attempt"),
			RunTime: ptr(1.25),
		},
		{
			State:     types.StateFailure,
			URL:       mustParseURL(t, "https://thema.ai/b"),
			Traceback: ptr("connection reset"),
		},
	}

	body, err := marshalRows(rowsFromMetadata(records))
	assert.NoError(t, err)
	back, err := unmarshalRows[metadataRow](body)
	assert.NoError(t, err)
	decoded, err := metadataFromRows(back)
	assert.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestHeadersTextPreservesOrder(t *testing.T) {
	h := types.Headers{
		{Key: "Server", Value: "nginx"},
		{Key: "Content-Type", Value: "text/html"},
		{Key: "Age", Value: "0"},
	}

	text, err := headersText(h)
	assert.NoError(t, err)
	assert.Equal(t, `{"Server":"nginx","Content-Type":"text/html","Age":"0"}`, *text)

	back, err := headersFromText(text)
	assert.NoError(t, err)
	assert.Equal(t, h, back)
}

func TestHeadersTextAbsent(t *testing.T) {
	text, err := headersText(nil)
	assert.NoError(t, err)
	assert.Nil(t, text)

	back, err := headersFromText(nil)
	assert.NoError(t, err)
	assert.Nil(t, back)
}

func TestEncodeTableValidatesThroughCodec(t *testing.T) {
	records := fakeGetResponses(t)
	tbl, err := types.GetResponseCodec{}.ToTable(records)
	assert.NoError(t, err)

	body, err := encodeTable(tbl, types.RecordGet)
	assert.NoError(t, err)

	rows, err := unmarshalRows[getRow](body)
	assert.NoError(t, err)
	decoded, err := getResponsesFromRows(rows)
	assert.NoError(t, err)
	assert.Equal(t, records, decoded)

	// A head table is missing the data column the get schema requires.
	headTbl, err := types.HeadResponseCodec{}.ToTable(nil)
	assert.NoError(t, err)
	_, err = encodeTable(headTbl, types.RecordGet)
	assert.Error(t, err)
}

func TestEncodeTableEmpty(t *testing.T) {
	tbl, err := types.MetadataCodec{}.ToTable(nil)
	assert.NoError(t, err)

	body, err := encodeTable(tbl, types.RecordGetMetadata)
	assert.NoError(t, err)

	rows, err := unmarshalRows[metadataRow](body)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
