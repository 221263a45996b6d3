package types

import "fmt"

// RecordType identifies one of the four stored record kinds.
type RecordType int

// The closed set of record kinds.
const (
	RecordGet RecordType = iota
	RecordHead
	RecordGetMetadata
	RecordHeadMetadata
)

// Directory tokens, one per record kind. The mapping is total and injective.
const (
	dirGet          = "get"
	dirHead         = "head"
	dirGetMetadata  = "get-metadata"
	dirHeadMetadata = "head-metadata"
)

// Dir returns the directory token for the record kind.
func (t RecordType) Dir() string {
	switch t {
	case RecordGet:
		return dirGet
	case RecordHead:
		return dirHead
	case RecordGetMetadata:
		return dirGetMetadata
	case RecordHeadMetadata:
		return dirHeadMetadata
	default:
		return ""
	}
}

// String returns the directory token.
func (t RecordType) String() string { return t.Dir() }

// ParseRecordType converts a directory token back to its RecordType.
func ParseRecordType(dir string) (RecordType, error) {
	switch dir {
	case dirGet:
		return RecordGet, nil
	case dirHead:
		return RecordHead, nil
	case dirGetMetadata:
		return RecordGetMetadata, nil
	case dirHeadMetadata:
		return RecordHeadMetadata, nil
	default:
		return 0, fmt.Errorf("token %q: %w", dir, ErrInvalidRecordType)
	}
}

// DataType is the data-only narrowing of RecordType: fetched responses,
// not retrieval metadata.
type DataType int

// Data-only record kinds.
const (
	DataGet DataType = iota
	DataHead
)

// RecordType widens the DataType. The widening is total.
func (t DataType) RecordType() RecordType {
	if t == DataHead {
		return RecordHead
	}
	return RecordGet
}

// MetadataType is the metadata-only narrowing of RecordType.
type MetadataType int

// Metadata-only record kinds.
const (
	MetadataGet MetadataType = iota
	MetadataHead
)

// RecordType widens the MetadataType. The widening is total.
func (t MetadataType) RecordType() RecordType {
	if t == MetadataHead {
		return RecordHeadMetadata
	}
	return RecordGetMetadata
}

// DataType narrows the RecordType to its data-only subset.
// Returns ErrInvalidRecordType for metadata kinds.
func (t RecordType) DataType() (DataType, error) {
	switch t {
	case RecordGet:
		return DataGet, nil
	case RecordHead:
		return DataHead, nil
	default:
		return 0, fmt.Errorf("%s is not a data type: %w", t, ErrInvalidRecordType)
	}
}

// MetadataType narrows the RecordType to its metadata-only subset.
// Returns ErrInvalidRecordType for data kinds.
func (t RecordType) MetadataType() (MetadataType, error) {
	switch t {
	case RecordGetMetadata:
		return MetadataGet, nil
	case RecordHeadMetadata:
		return MetadataHead, nil
	default:
		return 0, fmt.Errorf("%s is not a metadata type: %w", t, ErrInvalidRecordType)
	}
}
