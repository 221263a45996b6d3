package types

import (
	"net/url"
	"time"
)

// GetResponse is one GET fetch attempt against a target URL.
type GetResponse struct {
	URL            *url.URL  // target url
	RequestURL     *url.URL  // url actually requested, post-redirect
	StatusCode     uint16    // HTTP status of this attempt
	Data           []byte    // raw body; nil when not captured (non-final attempt)
	Headers        Headers   // response headers; nil when absent
	Timestamp      time.Time // UTC capture time, second precision in storage
	RetryAttempt   uint8     // zero-based attempt counter
	IsFinal        bool      // true on the terminal attempt
	FetcherName    string
	FetcherVersion string
	FetcherCalibre uint8 // fetcher quality tier
}

// HeadResponse is one HEAD fetch attempt. HEAD carries no body.
type HeadResponse struct {
	URL            *url.URL
	RequestURL     *url.URL
	StatusCode     uint16
	Headers        Headers
	Timestamp      time.Time
	RetryAttempt   uint8
	IsFinal        bool
	FetcherName    string
	FetcherVersion string
	FetcherCalibre uint8
}

// Common terminal states for Metadata. The column is free-form text; these
// are the values the fetchers write.
const (
	StateSuccess = "success"
	StateFailure = "failure"
)

// Metadata describes the outcome of one retrieval job.
type Metadata struct {
	State     string   // terminal state of the job
	URL       *url.URL // target url
	Logs      *string  // nil when absent
	Traceback *string  // nil when absent
	RunTime   *float64 // seconds; nil when absent
}
