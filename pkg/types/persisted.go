package types

// Persisted is a record bound to the RequestID of the batch that stored it.
// Every record wrapped in one call shares exactly one RequestID.
type Persisted[T any] struct {
	Data      T
	RequestID RequestID
}

// Wrap binds a fresh RequestID to every record. Two separate calls never
// share an identity.
func Wrap[T any](records []T) []Persisted[T] {
	return WrapWithID(records, NewRequestID())
}

// WrapWithID binds a known RequestID to every record.
func WrapWithID[T any](records []T, id RequestID) []Persisted[T] {
	out := make([]Persisted[T], len(records))
	for i, record := range records {
		out[i] = Persisted[T]{Data: record, RequestID: id}
	}
	return out
}
