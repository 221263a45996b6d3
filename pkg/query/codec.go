package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/webindex/pkg/types"
)

// Scheme is the URI scheme shared by all query variants.
const Scheme = "thema"

// defaultAuthority is the index label written on encode. Decode accepts
// any authority; the label carries no meaning.
const defaultAuthority = "web-index"

// Query parameter names.
const (
	paramURL           = "url"
	paramTimestamp     = "timestamp"
	paramRequestID     = "request_id"
	paramCalibre       = "calibre"
	paramCalibreStrict = "calibre_strict"
	paramNotBefore     = "not_before"
	paramNotAfter      = "not_after"
)

// encodeURI assembles "thema://web-index/{type_dir}?{params}". url.Values
// sorts parameter names, so the encoding is canonical and injective per
// variant.
func encodeURI(t types.RecordType, params url.Values) string {
	u := url.URL{
		Scheme:   Scheme,
		Host:     defaultAuthority,
		Path:     "/" + t.Dir(),
		RawQuery: params.Encode(),
	}
	return u.String()
}

// formatQueryTime renders an instant in UTC at full precision. The query
// codec never truncates; second-precision rounding happens only in the
// table mapping, where it is a documented lossy step.
func formatQueryTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Encode renders the deterministic query URI. Timestamps encode in UTC at
// full precision, so Decode(Encode(q)) == q for UTC-normalized queries.
func (q Deterministic) Encode() string {
	params := url.Values{}
	params.Set(paramURL, q.URL.String())
	params.Set(paramTimestamp, formatQueryTime(q.Timestamp))
	params.Set(paramRequestID, q.RequestID.String())
	return encodeURI(q.Type, params)
}

// Encode renders the simple query URI.
func (q Simple) Encode() string {
	params := url.Values{}
	params.Set(paramURL, q.URL.String())
	params.Set(paramCalibre, strconv.FormatUint(uint64(q.Calibre), 10))
	params.Set(paramCalibreStrict, strconv.FormatBool(q.CalibreStrict))
	return encodeURI(q.Type, params)
}

// Encode renders the time-bounded query URI. Window bounds encode in UTC
// at full precision, so Decode(Encode(q)) == q for UTC-normalized queries.
func (q TimeBounded) Encode() string {
	params := url.Values{}
	params.Set(paramURL, q.URL.String())
	params.Set(paramNotBefore, formatQueryTime(q.NotBefore))
	params.Set(paramNotAfter, formatQueryTime(q.NotAfter))
	params.Set(paramCalibre, strconv.FormatUint(uint64(q.Calibre), 10))
	params.Set(paramCalibreStrict, strconv.FormatBool(q.CalibreStrict))
	return encodeURI(q.Type, params)
}

// Decode parses a query URI, trying Deterministic, then TimeBounded, then
// Simple, and returns the first variant whose required parameters all
// parse. The order is a contract: TimeBounded's required parameters are a
// strict superset of Simple's, so the more specific shape must win, and a
// URI carrying request_id always decodes Deterministic. Fails with
// ErrUnrecognizedQuery when no variant matches.
func Decode(text string) (Query, error) {
	u, err := url.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", text, types.ErrUnrecognizedQuery)
	}
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("scheme %q: %w", u.Scheme, types.ErrUnrecognizedQuery)
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	recordType, err := types.ParseRecordType(segment)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", u.Path, types.ErrUnrecognizedQuery)
	}

	params := u.Query()
	if q, err := decodeDeterministic(recordType, params); err == nil {
		return q, nil
	}
	if q, err := decodeTimeBounded(recordType, params); err == nil {
		return q, nil
	}
	if q, err := decodeSimple(recordType, params); err == nil {
		return q, nil
	}
	return nil, fmt.Errorf("%q matches no variant: %w", text, types.ErrUnrecognizedQuery)
}

func paramValue(params url.Values, name string) (string, error) {
	if !params.Has(name) {
		return "", fmt.Errorf("missing parameter %q", name)
	}
	return params.Get(name), nil
}

func paramTime(params url.Values, name string) (time.Time, error) {
	raw, err := paramValue(params, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parameter %q: %w", name, err)
	}
	return t.UTC(), nil
}

func paramTargetURL(params url.Values) (*url.URL, error) {
	raw, err := paramValue(params, paramURL)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", paramURL, err)
	}
	return u, nil
}

func paramCalibreFields(params url.Values) (uint8, bool, error) {
	rawCalibre, err := paramValue(params, paramCalibre)
	if err != nil {
		return 0, false, err
	}
	calibre, err := strconv.ParseUint(rawCalibre, 10, 8)
	if err != nil {
		return 0, false, fmt.Errorf("parameter %q: %w", paramCalibre, err)
	}
	rawStrict, err := paramValue(params, paramCalibreStrict)
	if err != nil {
		return 0, false, err
	}
	strict, err := strconv.ParseBool(rawStrict)
	if err != nil {
		return 0, false, fmt.Errorf("parameter %q: %w", paramCalibreStrict, err)
	}
	return uint8(calibre), strict, nil
}

func decodeDeterministic(t types.RecordType, params url.Values) (Query, error) {
	target, err := paramTargetURL(params)
	if err != nil {
		return nil, err
	}
	ts, err := paramTime(params, paramTimestamp)
	if err != nil {
		return nil, err
	}
	rawID, err := paramValue(params, paramRequestID)
	if err != nil {
		return nil, err
	}
	id, err := types.ParseRequestID(rawID)
	if err != nil {
		return nil, err
	}
	return Deterministic{Type: t, URL: target, Timestamp: ts, RequestID: id}, nil
}

func decodeTimeBounded(t types.RecordType, params url.Values) (Query, error) {
	target, err := paramTargetURL(params)
	if err != nil {
		return nil, err
	}
	notBefore, err := paramTime(params, paramNotBefore)
	if err != nil {
		return nil, err
	}
	notAfter, err := paramTime(params, paramNotAfter)
	if err != nil {
		return nil, err
	}
	calibre, strict, err := paramCalibreFields(params)
	if err != nil {
		return nil, err
	}
	return TimeBounded{
		Type:          t,
		URL:           target,
		NotBefore:     notBefore,
		NotAfter:      notAfter,
		Calibre:       calibre,
		CalibreStrict: strict,
	}, nil
}

func decodeSimple(t types.RecordType, params url.Values) (Query, error) {
	target, err := paramTargetURL(params)
	if err != nil {
		return nil, err
	}
	calibre, strict, err := paramCalibreFields(params)
	if err != nil {
		return nil, err
	}
	return Simple{Type: t, URL: target, Calibre: calibre, CalibreStrict: strict}, nil
}
