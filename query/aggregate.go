package query

import (
	"fmt"

	"github.com/vegasq/colframe/table"
)

// AggKind identifies a built-in aggregation, or AggCustom for an opaque
// user-supplied reducer.
type AggKind int

const (
	AggCount AggKind = iota
	AggSum
	AggAvg
	AggMin
	AggMax
	AggCountDistinct
	AggCustom
)

// Reducer is a user-supplied aggregation over the materialized rows of one
// bucket. It must handle an empty bucket itself.
type Reducer func(rows []table.Row) interface{}

// Aggregation binds an aggregation to an output column name. Built-in kinds
// are bound to one source field by metadata; custom reducers carry a Reducer
// instead. Kinds are distinguished by tag, never by inspecting code.
type Aggregation struct {
	Name  string
	Kind  AggKind
	Field string
	Fn    Reducer
}

// As returns a copy of the aggregation with an explicit output name.
func (a Aggregation) As(name string) Aggregation {
	a.Name = name
	return a
}

// Count counts the rows of each bucket. The bound field is metadata only;
// count never reads it.
func Count(field string) Aggregation {
	return Aggregation{Name: field, Kind: AggCount, Field: field}
}

// Sum sums the non-null values of field. An empty bucket sums to 0.
func Sum(field string) Aggregation {
	return Aggregation{Name: field, Kind: AggSum, Field: field}
}

// Avg averages the non-null values of field, or null for an empty bucket.
func Avg(field string) Aggregation {
	return Aggregation{Name: field, Kind: AggAvg, Field: field}
}

// Min takes the minimum non-null value of field, or null for an empty bucket.
func Min(field string) Aggregation {
	return Aggregation{Name: field, Kind: AggMin, Field: field}
}

// Max takes the maximum non-null value of field, or null for an empty bucket.
func Max(field string) Aggregation {
	return Aggregation{Name: field, Kind: AggMax, Field: field}
}

// CountDistinct counts the distinct non-null values of field.
func CountDistinct(field string) Aggregation {
	return Aggregation{Name: field, Kind: AggCountDistinct, Field: field}
}

// Custom wraps a user-supplied reducer under the given output name.
func Custom(name string, fn Reducer) Aggregation {
	return Aggregation{Name: name, Kind: AggCustom, Fn: fn}
}

// validateAggregations checks every aggregation against the schema before any
// bucket work starts.
func validateAggregations(schema table.Schema, aggs []Aggregation) error {
	for _, agg := range aggs {
		if agg.Name == "" {
			return validationErrorf("aggregation has no output name")
		}
		if agg.Kind == AggCustom {
			if agg.Fn == nil {
				return validationErrorf("custom aggregation %q has no reducer", agg.Name)
			}
			continue
		}
		if !schema.Has(agg.Field) {
			return &FieldNotFoundError{Field: agg.Field, Available: schema.Names()}
		}
	}
	return nil
}

// GroupBy buckets rows by the distinct values of column, in first-occurrence
// order, and evaluates every aggregation over each bucket. Rows whose group
// value is null are dropped. The output has one row per distinct value:
// the grouping column plus one column per aggregation.
func GroupBy(tbl *table.Table, column string, aggs ...Aggregation) (*table.Table, error) {
	schema := tbl.Schema()
	groupField, ok := schema.Field(column)
	if !ok {
		return nil, &FieldNotFoundError{Field: column, Available: schema.Names()}
	}
	if len(aggs) == 0 {
		return nil, validationErrorf("group by needs at least one aggregation")
	}
	if err := validateAggregations(schema, aggs); err != nil {
		return nil, err
	}

	vec, _ := tbl.Column(column)
	var keys []string
	buckets := make(map[string][]int)
	keyValues := make(map[string]interface{})
	for i := 0; i < tbl.NumRows(); i++ {
		if !vec.IsValid(i) {
			continue
		}
		v := vec.Get(i)
		key := bucketKey(v)
		if _, seen := buckets[key]; !seen {
			keys = append(keys, key)
			keyValues[key] = v
		}
		buckets[key] = append(buckets[key], i)
	}

	fields := make([]table.Field, 0, 1+len(aggs))
	fields = append(fields, groupField)
	for _, agg := range aggs {
		fields = append(fields, aggResultField(agg))
	}
	outSchema, err := table.NewSchema(fields...)
	if err != nil {
		return nil, validationErrorf("%v", err)
	}

	cols := make([]table.Values, len(fields))
	for i := range cols {
		cols[i] = make(table.Values, 0, len(keys))
	}
	for _, key := range keys {
		indices := buckets[key]
		cols[0] = append(cols[0], keyValues[key])
		for j, agg := range aggs {
			cols[j+1] = append(cols[j+1], aggregateIndices(tbl, agg, indices))
		}
	}

	vectors := make([]table.Vector, len(cols))
	for i, c := range cols {
		vectors[i] = c
	}
	return table.New(outSchema, vectors)
}

// bucketKey builds a hash key for a group value. %#v keeps values of
// different types from colliding.
func bucketKey(v interface{}) string {
	return fmt.Sprintf("%#v", v)
}

// aggResultField gives the output column for an aggregation.
func aggResultField(agg Aggregation) table.Field {
	switch agg.Kind {
	case AggCount, AggCountDistinct:
		return table.Field{Name: agg.Name, Type: table.Integer}
	case AggSum:
		return table.Field{Name: agg.Name, Type: table.Float}
	case AggAvg, AggMin, AggMax:
		return table.Field{Name: agg.Name, Type: table.Float, Nullable: true}
	default:
		return table.Field{Name: agg.Name, Type: table.Unknown, Nullable: true}
	}
}

// aggregateIndices evaluates one aggregation over a bucket of row indices.
// Built-ins read the bound source column directly and skip null cells; custom
// reducers receive the fully materialized rows.
func aggregateIndices(tbl *table.Table, agg Aggregation, indices []int) interface{} {
	if agg.Kind == AggCustom {
		rows := make([]table.Row, len(indices))
		for i, idx := range indices {
			rows[i] = tbl.Row(idx)
		}
		return agg.Fn(rows)
	}

	if agg.Kind == AggCount {
		return int64(len(indices))
	}

	vec, _ := tbl.Column(agg.Field)
	switch agg.Kind {
	case AggSum:
		sum := 0.0
		for _, idx := range indices {
			if !vec.IsValid(idx) {
				continue
			}
			if num, ok := toFloat64(vec.Get(idx)); ok {
				sum += num
			}
		}
		return sum
	case AggAvg:
		sum := 0.0
		count := 0
		for _, idx := range indices {
			if !vec.IsValid(idx) {
				continue
			}
			if num, ok := toFloat64(vec.Get(idx)); ok {
				sum += num
				count++
			}
		}
		if count == 0 {
			return nil
		}
		return sum / float64(count)
	case AggMin:
		var min *float64
		for _, idx := range indices {
			if !vec.IsValid(idx) {
				continue
			}
			if num, ok := toFloat64(vec.Get(idx)); ok {
				if min == nil || num < *min {
					min = &num
				}
			}
		}
		if min == nil {
			return nil
		}
		return *min
	case AggMax:
		var max *float64
		for _, idx := range indices {
			if !vec.IsValid(idx) {
				continue
			}
			if num, ok := toFloat64(vec.Get(idx)); ok {
				if max == nil || num > *max {
					max = &num
				}
			}
		}
		if max == nil {
			return nil
		}
		return *max
	case AggCountDistinct:
		seen := make(map[string]bool)
		for _, idx := range indices {
			if !vec.IsValid(idx) {
				continue
			}
			seen[bucketKey(vec.Get(idx))] = true
		}
		return int64(len(seen))
	default:
		return nil
	}
}
