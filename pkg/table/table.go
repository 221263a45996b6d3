// Package table provides the logical columnar table used as the
// serialization unit for a batch of records. A Table is a set of named,
// typed, nullable columns of equal length; the byte-level file encoding
// is the storage layer's concern, not this package's.
package table

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch reports a missing or mistyped column, or a null cell
// in a column the caller requires to be non-null.
var ErrSchemaMismatch = errors.New("table schema mismatch")

// Type identifies the value type of a column.
type Type int

// Column value types.
const (
	String Type = iota
	Binary
	Uint8
	Uint16
	Bool
	Float64
)

// String returns the lower-case name of the type.
func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Binary:
		return "binary"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Bool:
		return "bool"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Table is an ordered collection of equal-length columns with unique names.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a Table from the given columns. All columns must have unique
// names and equal lengths.
func New(cols ...Column) (*Table, error) {
	t := &Table{
		cols:  cols,
		index: make(map[string]int, len(cols)),
	}
	for i, col := range cols {
		if _, dup := t.index[col.name]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.name)
		}
		t.index[col.name] = i
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", col.name, col.Len(), t.rows)
		}
	}
	return t, nil
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns in the table.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.name
	}
	return names
}

// column returns the named column after checking its declared type.
func (t *Table) column(name string, typ Type) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, fmt.Errorf("column %q missing: %w", name, ErrSchemaMismatch)
	}
	col := t.cols[i]
	if col.typ != typ {
		return Column{}, fmt.Errorf("column %q is %s, want %s: %w", name, col.typ, typ, ErrSchemaMismatch)
	}
	return col, nil
}

// Strings returns the named string column as a nullable view.
// Fails with ErrSchemaMismatch if the column is absent or not a string column.
func (t *Table) Strings(name string) ([]*string, error) {
	col, err := t.column(name, String)
	if err != nil {
		return nil, err
	}
	out := make([]*string, col.Len())
	for i, cell := range col.cells {
		if cell != nil {
			v := cell.(string)
			out[i] = &v
		}
	}
	return out, nil
}

// Binaries returns the named binary column. Null cells are nil slices.
func (t *Table) Binaries(name string) ([][]byte, error) {
	col, err := t.column(name, Binary)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, col.Len())
	for i, cell := range col.cells {
		if cell != nil {
			out[i] = cell.([]byte)
		}
	}
	return out, nil
}

// Uint8s returns the named uint8 column as a nullable view.
func (t *Table) Uint8s(name string) ([]*uint8, error) {
	col, err := t.column(name, Uint8)
	if err != nil {
		return nil, err
	}
	out := make([]*uint8, col.Len())
	for i, cell := range col.cells {
		if cell != nil {
			v := cell.(uint8)
			out[i] = &v
		}
	}
	return out, nil
}

// Uint16s returns the named uint16 column as a nullable view.
func (t *Table) Uint16s(name string) ([]*uint16, error) {
	col, err := t.column(name, Uint16)
	if err != nil {
		return nil, err
	}
	out := make([]*uint16, col.Len())
	for i, cell := range col.cells {
		if cell != nil {
			v := cell.(uint16)
			out[i] = &v
		}
	}
	return out, nil
}

// Bools returns the named bool column as a nullable view.
func (t *Table) Bools(name string) ([]*bool, error) {
	col, err := t.column(name, Bool)
	if err != nil {
		return nil, err
	}
	out := make([]*bool, col.Len())
	for i, cell := range col.cells {
		if cell != nil {
			v := cell.(bool)
			out[i] = &v
		}
	}
	return out, nil
}

// Float64s returns the named float64 column as a nullable view.
func (t *Table) Float64s(name string) ([]*float64, error) {
	col, err := t.column(name, Float64)
	if err != nil {
		return nil, err
	}
	out := make([]*float64, col.Len())
	for i, cell := range col.cells {
		if cell != nil {
			v := cell.(float64)
			out[i] = &v
		}
	}
	return out, nil
}
