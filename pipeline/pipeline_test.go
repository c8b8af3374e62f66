package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/colframe/query"
	"github.com/vegasq/colframe/table"
)

func employeeTable(t *testing.T) *table.Table {
	t.Helper()
	schema := table.MustSchema(
		table.Field{Name: "id", Type: table.Integer},
		table.Field{Name: "name", Type: table.String},
		table.Field{Name: "age", Type: table.Integer},
		table.Field{Name: "department", Type: table.String},
	)
	tbl, err := table.New(schema, []table.Vector{
		table.Values{int64(1), int64(2), int64(3), int64(4), int64(5)},
		table.Values{"Alice", "Bob", "Charlie", "Dave", "Eve"},
		table.Values{int64(25), int64(30), int64(35), int64(40), int64(45)},
		table.Values{"Eng", "Prod", "Eng", "Sales", "Eng"},
	})
	require.NoError(t, err)
	return tbl
}

func nameColumn(t *testing.T, tbl *table.Table) []interface{} {
	t.Helper()
	vec, ok := tbl.Column("name")
	require.True(t, ok)
	out := make([]interface{}, vec.Len())
	for i := 0; i < vec.Len(); i++ {
		if vec.IsValid(i) {
			out[i] = vec.Get(i)
		}
	}
	return out
}

func TestPipeline_AppendsAreLazy(t *testing.T) {
	tbl := employeeTable(t)
	p := New(tbl)

	p2 := p.FilterSQL("age > 30").Sort(query.OrderBy{Column: "age", Desc: true})

	// Nothing ran yet: both handles still see the base table.
	assert.Equal(t, 2, p2.Pending())
	assert.Same(t, tbl, p2.Table())

	// Appending copied the queue; the parent handle is untouched.
	assert.Equal(t, 0, p.Pending())
}

func TestPipeline_SiblingHandlesDoNotAlias(t *testing.T) {
	p := New(employeeTable(t)).FilterSQL("age > 30")

	left := p.Slice(0, 1)
	right := p.Sort(query.OrderBy{Column: "age", Desc: true})

	assert.Equal(t, 2, left.Pending())
	assert.Equal(t, 2, right.Pending())
	assert.Equal(t, 1, p.Pending())

	gotLeft, err := left.Resolve()
	require.NoError(t, err)
	gotRight, err := right.Resolve()
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"Charlie"}, nameColumn(t, gotLeft))
	assert.Equal(t, []interface{}{"Eve", "Dave", "Charlie"}, nameColumn(t, gotRight))
}

func TestPipeline_ResolveRunsInAppendOrder(t *testing.T) {
	tbl := employeeTable(t)

	// Slice-then-filter and filter-then-slice give different answers; order
	// must match append order.
	first, err := New(tbl).Slice(0, 2).FilterSQL("age > 25").Resolve()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Bob"}, nameColumn(t, first))

	second, err := New(tbl).FilterSQL("age > 25").Slice(0, 2).Resolve()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Bob", "Charlie"}, nameColumn(t, second))
}

func TestPipeline_ResolveMemoizes(t *testing.T) {
	p := New(employeeTable(t)).FilterSQL("department = 'Eng'")

	got, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 0, p.Pending())
	assert.Same(t, got, p.Table())

	again, err := p.Resolve()
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestPipeline_ErrorLeavesHandleUnchanged(t *testing.T) {
	tbl := employeeTable(t)
	p := New(tbl).
		FilterSQL("age > 30").
		Sort(query.OrderBy{Column: "ghost"})

	_, err := p.Resolve()
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, p.ID(), opErr.Handle)
	assert.Contains(t, opErr.Op, "sort")

	var notFound *query.FieldNotFoundError
	assert.ErrorAs(t, err, &notFound)

	// The queue and table survive the failure, so the same error reproduces.
	assert.Equal(t, 2, p.Pending())
	assert.Same(t, tbl, p.Table())
	_, err = p.Resolve()
	require.Error(t, err)
}

func TestPipeline_BadSQLSurfacesParseError(t *testing.T) {
	p := New(employeeTable(t)).FilterSQL("age >")

	_, err := p.Resolve()
	require.Error(t, err)
	var parseErr *query.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestPipeline_Flush(t *testing.T) {
	p := New(employeeTable(t)).FilterSQL("department = 'Eng'")

	flushed, err := p.Flush()
	require.NoError(t, err)

	assert.Equal(t, 0, flushed.Pending())
	assert.NotEqual(t, p.ID(), flushed.ID())
	assert.Equal(t, 3, flushed.Table().NumRows())
}

func TestPipeline_FilterEquivalence(t *testing.T) {
	tbl := employeeTable(t)

	fromSQL, err := New(tbl).FilterSQL("department = 'Eng' AND age > 30").Resolve()
	require.NoError(t, err)

	fromStructured, err := New(tbl).Filter(
		query.Field("department", query.OpEq, "Eng"),
		query.Field("age", query.OpGt, int64(30)),
	).Resolve()
	require.NoError(t, err)

	assert.Equal(t, fromStructured.Rows(), fromSQL.Rows())
}

func TestPipeline_SelectAndPaginate(t *testing.T) {
	tbl := employeeTable(t)

	got, err := New(tbl).Select("name", "age").Paginate(2, 2).Resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, got.Schema().Names())
	assert.Equal(t, []interface{}{"Charlie", "Dave"}, nameColumn(t, got))
}

func TestPipeline_PaginatePastEndIsEmpty(t *testing.T) {
	got, err := New(employeeTable(t)).Paginate(4, 2).Resolve()
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumRows())
}

func TestPipeline_Map(t *testing.T) {
	tbl := employeeTable(t)
	outSchema := table.MustSchema(
		table.Field{Name: "name", Type: table.String},
		table.Field{Name: "ageInMonths", Type: table.Integer},
	)

	got, err := New(tbl).Map(outSchema, func(row table.Row) table.Row {
		return table.Row{
			"name":        row["name"],
			"ageInMonths": row["age"].(int64) * 12,
		}
	}).Resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "ageInMonths"}, got.Schema().Names())
	vec, _ := got.Column("ageInMonths")
	assert.Equal(t, int64(300), vec.Get(0))
	assert.Equal(t, tbl.NumRows(), got.NumRows())
}

func TestPipeline_Project(t *testing.T) {
	got, err := New(employeeTable(t)).Project(
		Projection{Out: "employee", In: "name"},
		Projection{Out: "years", In: "age"},
	).Resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"employee", "years"}, got.Schema().Names())
	vec, _ := got.Column("employee")
	assert.Equal(t, "Alice", vec.Get(0))
}

func TestPipeline_GroupBy(t *testing.T) {
	got, err := New(employeeTable(t)).
		GroupBy("department", query.Count("id").As("n")).
		Sort(query.OrderBy{Column: "n", Desc: true}).
		Resolve()
	require.NoError(t, err)

	require.Equal(t, 3, got.NumRows())
	dep, _ := got.Column("department")
	n, _ := got.Column("n")
	assert.Equal(t, "Eng", dep.Get(0))
	assert.Equal(t, int64(3), n.Get(0))
}

func TestPipeline_PivotAndUnpivot(t *testing.T) {
	tbl := employeeTable(t)

	pivoted, err := New(tbl).Pivot(query.PivotSpec{
		On:      []string{"department"},
		Using:   []query.Aggregation{query.Count("id").As("n")},
		GroupBy: nil,
	}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"n_Eng", "n_Prod", "n_Sales"}, pivoted.Schema().Names())
	require.Equal(t, 1, pivoted.NumRows())

	melted, err := New(pivoted).Unpivot(query.UnpivotSpec{
		ValueColumns: pivoted.Schema().Names(),
	}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "value"}, melted.Schema().Names())
	require.Equal(t, 3, melted.NumRows())

	// Melting the pivot reconstructs every per-department count.
	want := map[string]interface{}{
		"n_Eng":   int64(3),
		"n_Prod":  int64(1),
		"n_Sales": int64(1),
	}
	for _, row := range melted.Rows() {
		name := row["name"].(string)
		assert.Equal(t, want[name], row["value"], name)
	}
}
