package pipeline

import (
	"fmt"
	"strings"

	"github.com/vegasq/colframe/query"
	"github.com/vegasq/colframe/table"
)

// mapBatchSize bounds how many rows a Map step materializes at once.
const mapBatchSize = 1024

type stepKind int

const (
	stepFilter stepKind = iota
	stepFilterSQL
	stepSort
	stepSelect
	stepSlice
	stepMap
	stepProject
	stepGroupBy
	stepPivot
	stepUnpivot
)

// step is one queued transformation: a closed tagged variant carrying its
// parameters, dispatched by apply. Only Map carries opaque user code.
type step struct {
	kind stepKind

	conds   []query.Condition
	sql     string
	sortBy  []query.OrderBy
	fields  []string
	start   int
	end     int
	schema  table.Schema
	mapFn   RowMapper
	projs   []Projection
	column  string
	aggs    []query.Aggregation
	pivot   query.PivotSpec
	unpivot query.UnpivotSpec
}

// describe names the step for error context.
func (s step) describe() string {
	switch s.kind {
	case stepFilter:
		return "filter"
	case stepFilterSQL:
		return "filter " + s.sql
	case stepSort:
		cols := make([]string, len(s.sortBy))
		for i, b := range s.sortBy {
			cols[i] = b.Column
		}
		return "sort " + strings.Join(cols, ", ")
	case stepSelect:
		return "select " + strings.Join(s.fields, ", ")
	case stepSlice:
		return fmt.Sprintf("slice [%d, %d)", s.start, s.end)
	case stepMap:
		return "map"
	case stepProject:
		return "project"
	case stepGroupBy:
		return "group by " + s.column
	case stepPivot:
		return "pivot on " + strings.Join(s.pivot.On, ", ")
	case stepUnpivot:
		return "unpivot " + strings.Join(s.unpivot.ValueColumns, ", ")
	default:
		return "unknown"
	}
}

// apply runs the step against a table, producing its successor. Steps never
// mutate the table they receive.
func (s step) apply(tbl *table.Table) (*table.Table, error) {
	switch s.kind {
	case stepFilter:
		return query.Filter(tbl, s.conds...)
	case stepFilterSQL:
		conds, err := query.ParseFilter(s.sql)
		if err != nil {
			return nil, err
		}
		return query.Filter(tbl, conds...)
	case stepSort:
		indices, err := query.SortIndices(tbl, s.sortBy...)
		if err != nil {
			return nil, err
		}
		return tbl.Gather(indices), nil
	case stepSelect:
		return tbl.Select(s.fields...)
	case stepSlice:
		return tbl.Slice(s.start, s.end), nil
	case stepMap:
		return applyMap(tbl, s.schema, s.mapFn)
	case stepProject:
		return applyProject(tbl, s.projs)
	case stepGroupBy:
		return query.GroupBy(tbl, s.column, s.aggs...)
	case stepPivot:
		return query.Pivot(tbl, s.pivot)
	case stepUnpivot:
		return query.Unpivot(tbl, s.unpivot)
	default:
		return nil, fmt.Errorf("unknown step kind %d", s.kind)
	}
}

// applyMap runs an arbitrary row mapper, materializing input rows one batch
// at a time.
func applyMap(tbl *table.Table, schema table.Schema, fn RowMapper) (*table.Table, error) {
	if fn == nil {
		return nil, fmt.Errorf("map has no function")
	}

	out := make([]table.Row, 0, tbl.NumRows())
	for start := 0; start < tbl.NumRows(); start += mapBatchSize {
		end := start + mapBatchSize
		if end > tbl.NumRows() {
			end = tbl.NumRows()
		}
		for i := start; i < end; i++ {
			out = append(out, fn(tbl.Row(i)))
		}
	}
	return table.FromRows(schema, out)
}

// applyProject renames columns declaratively, sharing the underlying vectors
// instead of materializing rows.
func applyProject(tbl *table.Table, projs []Projection) (*table.Table, error) {
	schema := tbl.Schema()
	fields := make([]table.Field, 0, len(projs))
	cols := make([]table.Vector, 0, len(projs))
	for _, proj := range projs {
		f, ok := schema.Field(proj.In)
		if !ok {
			return nil, fmt.Errorf("field %q not found in schema (%s)", proj.In, strings.Join(schema.Names(), ", "))
		}
		vec, _ := tbl.Column(proj.In)
		f.Name = proj.Out
		fields = append(fields, f)
		cols = append(cols, vec)
	}
	outSchema, err := table.NewSchema(fields...)
	if err != nil {
		return nil, err
	}
	return table.New(outSchema, cols)
}
