package table

import "fmt"

// Table holds one row per sample, keyed by a unique sample identifier, with
// column-major storage. Row order is insertion order.
type Table struct {
	ids      []string
	rowIndex map[string]int
	columns  []string
	colIndex map[string]int
	data     [][]Value
}

// New returns an empty table with the given (non-identifier) columns.
func New(columns ...string) (*Table, error) {
	t := &Table{
		rowIndex: make(map[string]int),
		colIndex: make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if _, exists := t.colIndex[c]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		t.colIndex[c] = len(t.columns)
		t.columns = append(t.columns, c)
		t.data = append(t.data, nil)
	}

	return t, nil
}

// Append adds a row. values must have one entry per column.
func (t *Table) Append(id string, values ...Value) error {
	if _, exists := t.rowIndex[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSample, id)
	}
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: sample %q has %d values, expected %d", ErrMalformed, id, len(values), len(t.columns))
	}

	t.rowIndex[id] = len(t.ids)
	t.ids = append(t.ids, id)
	for i, v := range values {
		t.data[i] = append(t.data[i], v)
	}

	return nil
}

// Len returns the number of samples.
func (t *Table) Len() int { return len(t.ids) }

// Samples returns the sample identifiers in row order. The slice must not be
// modified.
func (t *Table) Samples() []string { return t.ids }

// Columns returns the column names in order. The slice must not be modified.
func (t *Table) Columns() []string { return t.columns }

func (t *Table) HasColumn(name string) bool {
	_, exists := t.colIndex[name]
	return exists
}

// Column returns the values of the named column in row order. The slice must
// not be modified.
func (t *Table) Column(name string) ([]Value, error) {
	i, exists := t.colIndex[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	return t.data[i], nil
}

// Index returns the row of sample id.
func (t *Table) Index(id string) (int, bool) {
	i, exists := t.rowIndex[id]
	return i, exists
}
