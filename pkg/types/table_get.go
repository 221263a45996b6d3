package types

import (
	"github.com/mesh-intelligence/webindex/pkg/table"
)

// GetResponseCodec maps GetResponse records to and from their table form.
type GetResponseCodec struct{}

var _ Codec[GetResponse] = GetResponseCodec{}

// ToTable converts GetResponse records into a columnar table.
func (GetResponseCodec) ToTable(records []GetResponse) (*table.Table, error) {
	n := len(records)
	urls := make([]string, n)
	requestURLs := make([]string, n)
	statusCodes := make([]uint16, n)
	data := make([][]byte, n)
	headers := make([]*string, n)
	timestamps := make([]string, n)
	retryAttempts := make([]uint8, n)
	isFinals := make([]bool, n)
	fetcherNames := make([]string, n)
	fetcherVersions := make([]string, n)
	fetcherCalibres := make([]uint8, n)

	for i, r := range records {
		urls[i] = r.URL.String()
		requestURLs[i] = r.RequestURL.String()
		statusCodes[i] = r.StatusCode
		data[i] = r.Data
		text, err := headersToText(r.Headers)
		if err != nil {
			return nil, err
		}
		headers[i] = text
		timestamps[i] = FormatTimestamp(r.Timestamp)
		retryAttempts[i] = r.RetryAttempt
		isFinals[i] = r.IsFinal
		fetcherNames[i] = r.FetcherName
		fetcherVersions[i] = r.FetcherVersion
		fetcherCalibres[i] = r.FetcherCalibre
	}

	return table.New(
		table.Strings("url", urls),
		table.Strings("request_url", requestURLs),
		table.Uint16s("status_code", statusCodes),
		table.Binaries("data", data),
		table.NullableStrings("headers", headers),
		table.Strings("timestamp", timestamps),
		table.Uint8s("retry_attempt", retryAttempts),
		table.Bools("is_final", isFinals),
		table.Strings("fetcher_name", fetcherNames),
		table.Strings("fetcher_version", fetcherVersions),
		table.Uint8s("fetcher_calibre", fetcherCalibres),
	)
}

// FromTable converts a columnar table back into GetResponse records.
// The whole call fails on the first schema violation or malformed field.
func (GetResponseCodec) FromTable(t *table.Table) ([]GetResponse, error) {
	urls, err := requiredStrings(t, "url")
	if err != nil {
		return nil, err
	}
	requestURLs, err := requiredStrings(t, "request_url")
	if err != nil {
		return nil, err
	}
	statusCodes, err := requiredUint16s(t, "status_code")
	if err != nil {
		return nil, err
	}
	data, err := t.Binaries("data")
	if err != nil {
		return nil, err
	}
	headers, err := t.Strings("headers")
	if err != nil {
		return nil, err
	}
	timestamps, err := requiredStrings(t, "timestamp")
	if err != nil {
		return nil, err
	}
	retryAttempts, err := requiredUint8s(t, "retry_attempt")
	if err != nil {
		return nil, err
	}
	isFinals, err := requiredBools(t, "is_final")
	if err != nil {
		return nil, err
	}
	fetcherNames, err := requiredStrings(t, "fetcher_name")
	if err != nil {
		return nil, err
	}
	fetcherVersions, err := requiredStrings(t, "fetcher_version")
	if err != nil {
		return nil, err
	}
	fetcherCalibres, err := requiredUint8s(t, "fetcher_calibre")
	if err != nil {
		return nil, err
	}

	out := make([]GetResponse, t.NumRows())
	for i := range out {
		u, err := parseRecordURL(urls[i])
		if err != nil {
			return nil, err
		}
		ru, err := parseRecordURL(requestURLs[i])
		if err != nil {
			return nil, err
		}
		h, err := headersFromText(headers[i])
		if err != nil {
			return nil, err
		}
		ts, err := ParseTimestamp(timestamps[i])
		if err != nil {
			return nil, err
		}
		out[i] = GetResponse{
			URL:            u,
			RequestURL:     ru,
			StatusCode:     statusCodes[i],
			Data:           data[i],
			Headers:        h,
			Timestamp:      ts,
			RetryAttempt:   retryAttempts[i],
			IsFinal:        isFinals[i],
			FetcherName:    fetcherNames[i],
			FetcherVersion: fetcherVersions[i],
			FetcherCalibre: fetcherCalibres[i],
		}
	}
	return out, nil
}
