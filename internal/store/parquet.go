package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/parquet-go/parquet-go"

	"github.com/mesh-intelligence/webindex/pkg/table"
	"github.com/mesh-intelligence/webindex/pkg/types"
)

// Storage rows. One fixed parquet schema per record kind; optional columns
// are pointers (or nil byte slices) so that absent values persist as nulls,
// never as sentinels.

type getRow struct {
	URL            string  `parquet:"url"`
	RequestURL     string  `parquet:"request_url"`
	StatusCode     uint16  `parquet:"status_code"`
	Data           []byte  `parquet:"data,optional"`
	Headers        *string `parquet:"headers,optional"`
	Timestamp      string  `parquet:"timestamp"`
	RetryAttempt   uint8   `parquet:"retry_attempt"`
	IsFinal        bool    `parquet:"is_final"`
	FetcherName    string  `parquet:"fetcher_name"`
	FetcherVersion string  `parquet:"fetcher_version"`
	FetcherCalibre uint8   `parquet:"fetcher_calibre"`
}

type headRow struct {
	URL            string  `parquet:"url"`
	RequestURL     string  `parquet:"request_url"`
	StatusCode     uint16  `parquet:"status_code"`
	Headers        *string `parquet:"headers,optional"`
	Timestamp      string  `parquet:"timestamp"`
	RetryAttempt   uint8   `parquet:"retry_attempt"`
	IsFinal        bool    `parquet:"is_final"`
	FetcherName    string  `parquet:"fetcher_name"`
	FetcherVersion string  `parquet:"fetcher_version"`
	FetcherCalibre uint8   `parquet:"fetcher_calibre"`
}

type metadataRow struct {
	State     string   `parquet:"state"`
	URL       string   `parquet:"url"`
	Logs      *string  `parquet:"logs,optional"`
	Traceback *string  `parquet:"traceback,optional"`
	RunTime   *float64 `parquet:"run_time,optional"`
}

func marshalRows[R any](rows []R) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[R](&buf)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return nil, fmt.Errorf("writing parquet rows: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

func unmarshalRows[R any](data []byte) ([]R, error) {
	rows, err := parquet.Read[R](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading parquet rows: %w", err)
	}
	return rows, nil
}

func headersText(h types.Headers) (*string, error) {
	if h == nil {
		return nil, nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encoding headers: %w", err)
	}
	text := string(data)
	return &text, nil
}

func headersFromText(text *string) (types.Headers, error) {
	if text == nil {
		return nil, nil
	}
	var h types.Headers
	if err := json.Unmarshal([]byte(*text), &h); err != nil {
		return nil, err
	}
	return h, nil
}

func parseStoredURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("stored url %q: %w", s, types.ErrMalformedURL)
	}
	return u, nil
}

func rowsFromGetResponses(records []types.GetResponse) ([]getRow, error) {
	rows := make([]getRow, len(records))
	for i, r := range records {
		headers, err := headersText(r.Headers)
		if err != nil {
			return nil, err
		}
		rows[i] = getRow{
			URL:            r.URL.String(),
			RequestURL:     r.RequestURL.String(),
			StatusCode:     r.StatusCode,
			Data:           r.Data,
			Headers:        headers,
			Timestamp:      types.FormatTimestamp(r.Timestamp),
			RetryAttempt:   r.RetryAttempt,
			IsFinal:        r.IsFinal,
			FetcherName:    r.FetcherName,
			FetcherVersion: r.FetcherVersion,
			FetcherCalibre: r.FetcherCalibre,
		}
	}
	return rows, nil
}

func getResponsesFromRows(rows []getRow) ([]types.GetResponse, error) {
	records := make([]types.GetResponse, len(rows))
	for i, row := range rows {
		u, err := parseStoredURL(row.URL)
		if err != nil {
			return nil, err
		}
		ru, err := parseStoredURL(row.RequestURL)
		if err != nil {
			return nil, err
		}
		headers, err := headersFromText(row.Headers)
		if err != nil {
			return nil, err
		}
		ts, err := types.ParseTimestamp(row.Timestamp)
		if err != nil {
			return nil, err
		}
		records[i] = types.GetResponse{
			URL:            u,
			RequestURL:     ru,
			StatusCode:     row.StatusCode,
			Data:           row.Data,
			Headers:        headers,
			Timestamp:      ts,
			RetryAttempt:   row.RetryAttempt,
			IsFinal:        row.IsFinal,
			FetcherName:    row.FetcherName,
			FetcherVersion: row.FetcherVersion,
			FetcherCalibre: row.FetcherCalibre,
		}
	}
	return records, nil
}

func rowsFromHeadResponses(records []types.HeadResponse) ([]headRow, error) {
	rows := make([]headRow, len(records))
	for i, r := range records {
		headers, err := headersText(r.Headers)
		if err != nil {
			return nil, err
		}
		rows[i] = headRow{
			URL:            r.URL.String(),
			RequestURL:     r.RequestURL.String(),
			StatusCode:     r.StatusCode,
			Headers:        headers,
			Timestamp:      types.FormatTimestamp(r.Timestamp),
			RetryAttempt:   r.RetryAttempt,
			IsFinal:        r.IsFinal,
			FetcherName:    r.FetcherName,
			FetcherVersion: r.FetcherVersion,
			FetcherCalibre: r.FetcherCalibre,
		}
	}
	return rows, nil
}

func headResponsesFromRows(rows []headRow) ([]types.HeadResponse, error) {
	records := make([]types.HeadResponse, len(rows))
	for i, row := range rows {
		u, err := parseStoredURL(row.URL)
		if err != nil {
			return nil, err
		}
		ru, err := parseStoredURL(row.RequestURL)
		if err != nil {
			return nil, err
		}
		headers, err := headersFromText(row.Headers)
		if err != nil {
			return nil, err
		}
		ts, err := types.ParseTimestamp(row.Timestamp)
		if err != nil {
			return nil, err
		}
		records[i] = types.HeadResponse{
			URL:            u,
			RequestURL:     ru,
			StatusCode:     row.StatusCode,
			Headers:        headers,
			Timestamp:      ts,
			RetryAttempt:   row.RetryAttempt,
			IsFinal:        row.IsFinal,
			FetcherName:    row.FetcherName,
			FetcherVersion: row.FetcherVersion,
			FetcherCalibre: row.FetcherCalibre,
		}
	}
	return records, nil
}

func rowsFromMetadata(records []types.Metadata) []metadataRow {
	rows := make([]metadataRow, len(records))
	for i, r := range records {
		rows[i] = metadataRow{
			State:     r.State,
			URL:       r.URL.String(),
			Logs:      r.Logs,
			Traceback: r.Traceback,
			RunTime:   r.RunTime,
		}
	}
	return rows
}

func metadataFromRows(rows []metadataRow) ([]types.Metadata, error) {
	records := make([]types.Metadata, len(rows))
	for i, row := range rows {
		u, err := parseStoredURL(row.URL)
		if err != nil {
			return nil, err
		}
		records[i] = types.Metadata{
			State:     row.State,
			URL:       u,
			Logs:      row.Logs,
			Traceback: row.Traceback,
			RunTime:   row.RunTime,
		}
	}
	return records, nil
}

// encodeTable serializes a columnar table to parquet bytes under the fixed
// schema of the given record kind. The table is validated through the kind's
// codec first, so a table that does not match the kind fails before any
// bytes are produced.
func encodeTable(tbl *table.Table, kind types.RecordType) ([]byte, error) {
	switch kind {
	case types.RecordGet:
		records, err := types.GetResponseCodec{}.FromTable(tbl)
		if err != nil {
			return nil, err
		}
		rows, err := rowsFromGetResponses(records)
		if err != nil {
			return nil, err
		}
		return marshalRows(rows)
	case types.RecordHead:
		records, err := types.HeadResponseCodec{}.FromTable(tbl)
		if err != nil {
			return nil, err
		}
		rows, err := rowsFromHeadResponses(records)
		if err != nil {
			return nil, err
		}
		return marshalRows(rows)
	case types.RecordGetMetadata, types.RecordHeadMetadata:
		records, err := types.MetadataCodec{}.FromTable(tbl)
		if err != nil {
			return nil, err
		}
		return marshalRows(rowsFromMetadata(records))
	default:
		return nil, fmt.Errorf("no storage schema for record kind %d: %w", int(kind), types.ErrInvalidRecordType)
	}
}
