package query

import (
	"testing"

	"github.com/vegasq/colframe/table"
)

// employeeTable builds the shared five-row fixture used across the filter
// and aggregation tests.
func employeeTable(t *testing.T) *table.Table {
	t.Helper()
	schema := table.MustSchema(
		table.Field{Name: "id", Type: table.Integer},
		table.Field{Name: "name", Type: table.String, Nullable: true},
		table.Field{Name: "age", Type: table.Integer},
		table.Field{Name: "department", Type: table.String},
		table.Field{Name: "salary", Type: table.Float, Nullable: true},
	)
	tbl, err := table.New(schema, []table.Vector{
		table.Values{int64(1), int64(2), int64(3), int64(4), int64(5)},
		table.Values{"Alice", "Bob", "Charlie", "Dave", "Eve"},
		table.Values{int64(25), int64(30), int64(35), int64(40), int64(45)},
		table.Values{"Eng", "Prod", "Eng", "Sales", "Eng"},
		table.Values{100.0, 80.0, 120.0, 90.0, 110.0},
	})
	if err != nil {
		t.Fatalf("failed to build fixture table: %v", err)
	}
	return tbl
}

// columnValues materializes one column of a table for assertions.
func columnValues(t *testing.T, tbl *table.Table, name string) []interface{} {
	t.Helper()
	vec, ok := tbl.Column(name)
	if !ok {
		t.Fatalf("column %q not found", name)
	}
	out := make([]interface{}, vec.Len())
	for i := 0; i < vec.Len(); i++ {
		if vec.IsValid(i) {
			out[i] = vec.Get(i)
		}
	}
	return out
}

// names returns the name column of a filtered employee table.
func names(t *testing.T, tbl *table.Table) []interface{} {
	t.Helper()
	return columnValues(t, tbl, "name")
}
