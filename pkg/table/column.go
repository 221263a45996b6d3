package table

// Column is a named, typed, nullable sequence of cells. A nil cell is a
// null value; absence is always null, never a sentinel.
type Column struct {
	name  string
	typ   Type
	cells []any
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Type returns the declared value type.
func (c Column) Type() Type { return c.typ }

// Len returns the number of cells.
func (c Column) Len() int { return len(c.cells) }

// Strings builds a non-null string column.
func Strings(name string, vals []string) Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return Column{name: name, typ: String, cells: cells}
}

// NullableStrings builds a string column; nil entries become null cells.
func NullableStrings(name string, vals []*string) Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		if v != nil {
			cells[i] = *v
		}
	}
	return Column{name: name, typ: String, cells: cells}
}

// Binaries builds a binary column; nil slices become null cells.
// A zero-length slice is an empty value, distinct from null.
func Binaries(name string, vals [][]byte) Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		if v != nil {
			cells[i] = v
		}
	}
	return Column{name: name, typ: Binary, cells: cells}
}

// Uint8s builds a non-null uint8 column.
func Uint8s(name string, vals []uint8) Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return Column{name: name, typ: Uint8, cells: cells}
}

// Uint16s builds a non-null uint16 column.
func Uint16s(name string, vals []uint16) Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return Column{name: name, typ: Uint16, cells: cells}
}

// Bools builds a non-null bool column.
func Bools(name string, vals []bool) Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return Column{name: name, typ: Bool, cells: cells}
}

// NullableFloat64s builds a float64 column; nil entries become null cells.
func NullableFloat64s(name string, vals []*float64) Column {
	cells := make([]any, len(vals))
	for i, v := range vals {
		if v != nil {
			cells[i] = *v
		}
	}
	return Column{name: name, typ: Float64, cells: cells}
}
