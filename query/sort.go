package query

import (
	"sort"

	"github.com/vegasq/colframe/table"
)

// OrderBy names a sort column and direction. Nulls sort first ascending,
// last descending.
type OrderBy struct {
	Column string
	Desc   bool
}

// SortIndices returns the table's row indices ordered by the given columns,
// ties broken by subsequent entries. The sort is stable, so equal rows keep
// table order.
func SortIndices(tbl *table.Table, by ...OrderBy) ([]int, error) {
	schema := tbl.Schema()
	vecs := make([]table.Vector, len(by))
	for i, item := range by {
		vec, ok := tbl.Column(item.Column)
		if !ok {
			return nil, &FieldNotFoundError{Field: item.Column, Available: schema.Names()}
		}
		vecs[i] = vec
	}

	indices := make([]int, tbl.NumRows())
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(a, b int) bool {
		for k, item := range by {
			va := cellValue(vecs[k], indices[a])
			vb := cellValue(vecs[k], indices[b])
			cmp := compareValues(va, vb)
			if cmp == 0 {
				continue
			}
			if item.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	return indices, nil
}

func cellValue(vec table.Vector, i int) interface{} {
	if !vec.IsValid(i) {
		return nil
	}
	return vec.Get(i)
}

// sortRows orders materialized rows by the given columns. Missing columns
// compare as null. Used for ordering aggregation output.
func sortRows(rows []table.Row, by []OrderBy) []table.Row {
	if len(rows) == 0 || len(by) == 0 {
		return rows
	}

	sorted := make([]table.Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(a, b int) bool {
		for _, item := range by {
			cmp := compareValues(sorted[a][item.Column], sorted[b][item.Column])
			if cmp == 0 {
				continue
			}
			if item.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	return sorted
}
