// Package paths computes storage paths. A logical path is the partition
// coordinate of a record; a physical path adds the deconfliction marker
// that lets uncoordinated writers append to the same partition without
// clobbering each other.
package paths

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/webindex/pkg/domain"
	"github.com/mesh-intelligence/webindex/pkg/query"
)

// SuffixParquet is the storage-format token carried by every path.
const SuffixParquet = "parquet"

// LogicalPath is the partition coordinate "{dir}/{filename}.{suffix}".
// It never carries a deconfliction marker.
type LogicalPath struct {
	Dir      string
	Filename string
	Suffix   string
}

// NewLogicalPath builds a logical path from its components.
func NewLogicalPath(dir, filename, suffix string) LogicalPath {
	return LogicalPath{Dir: dir, Filename: filename, Suffix: suffix}
}

// String renders "{dir}/{filename}.{suffix}".
func (p LogicalPath) String() string {
	return fmt.Sprintf("%s/%s.%s", p.Dir, p.Filename, p.Suffix)
}

// ParseLogicalPath parses the textual form back into its components.
func ParseLogicalPath(s string) (LogicalPath, error) {
	slash := strings.LastIndex(s, "/")
	if slash < 0 {
		return LogicalPath{}, fmt.Errorf("logical path %q has no directory", s)
	}
	dir, rest := s[:slash], s[slash+1:]
	dot := strings.LastIndex(rest, ".")
	if dot <= 0 || dot == len(rest)-1 {
		return LogicalPath{}, fmt.Errorf("logical path %q has no suffix", s)
	}
	return LogicalPath{Dir: dir, Filename: rest[:dot], Suffix: rest[dot+1:]}, nil
}

// PhysicalPath is the stored-object coordinate: a logical path plus the
// deconfliction marker "{dir}/{filename}.{marker}.{suffix}".
type PhysicalPath struct {
	Logical LogicalPath
	Marker  string
}

// NewPhysicalPath binds a known marker to a logical path.
func NewPhysicalPath(logical LogicalPath, marker string) PhysicalPath {
	return PhysicalPath{Logical: logical, Marker: marker}
}

// NewPhysicalPathDefault binds a fresh 128-bit random marker. Every call
// draws a new marker, even for equal logical paths; this is the sole
// mechanism allowing lock-free concurrent appends to one partition.
func NewPhysicalPathDefault(logical LogicalPath) PhysicalPath {
	return NewPhysicalPath(logical, uuid.NewString())
}

// String renders "{dir}/{filename}.{marker}.{suffix}".
func (p PhysicalPath) String() string {
	return fmt.Sprintf("%s/%s.%s.%s", p.Logical.Dir, p.Logical.Filename, p.Marker, p.Logical.Suffix)
}

// Resolve computes the logical path of an insertion: the query's directory,
// the registered domain of its URL, and the parquet suffix. Extractor
// errors propagate unchanged. Resolve performs no I/O.
func Resolve(q query.InsertionQuery, extractor *domain.Extractor) (LogicalPath, error) {
	d, err := extractor.Domain(q.URL)
	if err != nil {
		return LogicalPath{}, err
	}
	return LogicalPath{Dir: q.Dir(), Filename: d.String(), Suffix: SuffixParquet}, nil
}
