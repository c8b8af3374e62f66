package table

import "fmt"

// Row is one materialized table row, keyed by column name. Null cells are
// present in the map with a nil value.
type Row map[string]interface{}

// Table is a schema plus one column vector per field, all of equal length.
// Tables are immutable: every transformation produces a new Table.
type Table struct {
	schema Schema
	cols   []Vector
	rows   int
}

// New builds a table from a schema and one vector per schema field, in schema
// order. All vectors must have the same length.
func New(schema Schema, cols []Vector) (*Table, error) {
	if len(cols) != schema.Len() {
		return nil, fmt.Errorf("schema has %d fields but %d columns were given", schema.Len(), len(cols))
	}
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	for i, col := range cols {
		if col.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", schema.fields[i].Name, col.Len(), rows)
		}
	}
	return &Table{schema: schema, cols: cols, rows: rows}, nil
}

// FromRows builds a table from materialized rows. Columns missing from a row
// become null cells.
func FromRows(schema Schema, rows []Row) (*Table, error) {
	cols := make([]Vector, schema.Len())
	for i, f := range schema.fields {
		values := make(Values, len(rows))
		for j, row := range rows {
			values[j] = row[f.Name]
		}
		cols[i] = values
	}
	return New(schema, cols)
}

// Empty returns a zero-row table with the same schema.
func (t *Table) Empty() *Table {
	cols := make([]Vector, t.schema.Len())
	for i := range cols {
		cols[i] = Values(nil)
	}
	return &Table{schema: t.schema, cols: cols, rows: 0}
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return t.rows
}

// Schema returns the table schema.
func (t *Table) Schema() Schema {
	return t.schema
}

// Column returns the vector for the named column and whether it exists.
func (t *Table) Column(name string) (Vector, bool) {
	i, ok := t.schema.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Slice returns a zero-copy view of rows [start, end). Bounds are clamped to
// the table.
func (t *Table) Slice(start, end int) *Table {
	if start < 0 {
		start = 0
	}
	if end > t.rows {
		end = t.rows
	}
	if start > end {
		start = end
	}
	cols := make([]Vector, len(t.cols))
	for i, col := range t.cols {
		cols[i] = sliceVector{base: col, start: start, end: end}
	}
	return &Table{schema: t.schema, cols: cols, rows: end - start}
}

// Select returns a table restricted to the named columns, sharing the
// underlying vectors.
func (t *Table) Select(names ...string) (*Table, error) {
	schema, err := t.schema.Select(names...)
	if err != nil {
		return nil, err
	}
	cols := make([]Vector, 0, len(names))
	for _, name := range names {
		cols = append(cols, t.cols[t.schema.index[name]])
	}
	return &Table{schema: schema, cols: cols, rows: t.rows}, nil
}

// Gather materializes a new table containing the given row indices in order.
// Indices may repeat and need not be sorted.
func (t *Table) Gather(indices []int) *Table {
	cols := make([]Vector, len(t.cols))
	for i, col := range t.cols {
		values := make(Values, len(indices))
		for j, idx := range indices {
			if col.IsValid(idx) {
				values[j] = col.Get(idx)
			}
		}
		cols[i] = values
	}
	return &Table{schema: t.schema, cols: cols, rows: len(indices)}
}

// Row materializes a single row.
func (t *Table) Row(i int) Row {
	row := make(Row, len(t.cols))
	for j, f := range t.schema.fields {
		if t.cols[j].IsValid(i) {
			row[f.Name] = t.cols[j].Get(i)
		} else {
			row[f.Name] = nil
		}
	}
	return row
}

// Rows materializes every row. Intended for small result sets and tests;
// batch-minded callers should use Row per index instead.
func (t *Table) Rows() []Row {
	rows := make([]Row, t.rows)
	for i := 0; i < t.rows; i++ {
		rows[i] = t.Row(i)
	}
	return rows
}
