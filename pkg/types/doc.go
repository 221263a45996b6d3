// Package types defines the record kinds stored in the web index, the
// batch-shared request identity, and the lossless mapping between records
// and their columnar table representation.
package types
