package query

import (
	"fmt"
	"strings"

	"github.com/vegasq/colframe/table"
)

// PivotSpec describes a pivot: the distinct values of the On columns become
// new columns, each aggregated by every Using aggregation, with GroupBy
// columns kept as rows.
type PivotSpec struct {
	On      []string
	Using   []Aggregation
	GroupBy []string
	OrderBy []OrderBy
	Limit   *int
}

// UnpivotSpec describes a melt: each ValueColumns entry of each row becomes
// its own output row carrying the column's name and value.
type UnpivotSpec struct {
	IDColumns    []string
	ValueColumns []string

	// NameColumn and ValueColumn default to "name" and "value".
	NameColumn  string
	ValueColumn string
}

// pivotCombination is one distinct value tuple of the On columns.
type pivotCombination struct {
	values []interface{}
	key    string
}

// Pivot reshapes the table per spec. Every (group, combination) pair produces
// columns even when no source rows match; the aggregation's empty-input
// result fills the gap.
func Pivot(tbl *table.Table, spec PivotSpec) (*table.Table, error) {
	schema := tbl.Schema()
	if len(spec.On) == 0 {
		return nil, validationErrorf("pivot needs at least one 'on' column")
	}
	if len(spec.Using) == 0 {
		return nil, validationErrorf("pivot needs at least one aggregation")
	}
	for _, name := range append(append([]string{}, spec.On...), spec.GroupBy...) {
		if !schema.Has(name) {
			return nil, &FieldNotFoundError{Field: name, Available: schema.Names()}
		}
	}
	if err := validateAggregations(schema, spec.Using); err != nil {
		return nil, err
	}

	combos := pivotCombinations(tbl, spec.On)

	// Partition rows by a composite key over the groupBy columns,
	// first-occurrence order.
	groupVecs := make([]table.Vector, len(spec.GroupBy))
	for i, name := range spec.GroupBy {
		groupVecs[i], _ = tbl.Column(name)
	}
	var groupKeys []string
	groups := make(map[string][]int)
	groupValues := make(map[string][]interface{})
	for i := 0; i < tbl.NumRows(); i++ {
		values := make([]interface{}, len(groupVecs))
		var key strings.Builder
		for j, vec := range groupVecs {
			values[j] = cellValue(vec, i)
			if j > 0 {
				key.WriteString("\x00||\x00")
			}
			key.WriteString(bucketKey(values[j]))
		}
		k := key.String()
		if _, seen := groups[k]; !seen {
			groupKeys = append(groupKeys, k)
			groupValues[k] = values
		}
		groups[k] = append(groups[k], i)
	}

	onVecs := make([]table.Vector, len(spec.On))
	for i, name := range spec.On {
		onVecs[i], _ = tbl.Column(name)
	}

	fields := make([]table.Field, 0, len(spec.GroupBy)+len(combos)*len(spec.Using))
	for _, name := range spec.GroupBy {
		f, _ := schema.Field(name)
		fields = append(fields, f)
	}
	for _, combo := range combos {
		for _, agg := range spec.Using {
			f := aggResultField(agg)
			f.Name = pivotColumnName(agg, combo.key)
			fields = append(fields, f)
		}
	}
	outSchema, err := table.NewSchema(fields...)
	if err != nil {
		return nil, validationErrorf("pivot output columns collide: %v", err)
	}

	rows := make([]table.Row, 0, len(groupKeys))
	for _, gk := range groupKeys {
		row := make(table.Row, len(fields))
		for i, name := range spec.GroupBy {
			row[name] = groupValues[gk][i]
		}
		for _, combo := range combos {
			matched := matchCombination(groups[gk], onVecs, combo)
			for _, agg := range spec.Using {
				row[pivotColumnName(agg, combo.key)] = aggregateIndices(tbl, agg, matched)
			}
		}
		rows = append(rows, row)
	}

	rows = sortRows(rows, spec.OrderBy)
	if spec.Limit != nil && *spec.Limit >= 0 && *spec.Limit < len(rows) {
		rows = rows[:*spec.Limit]
	}

	return table.FromRows(outSchema, rows)
}

// pivotCombinations computes the cartesian product of the distinct values of
// each On column, in first-occurrence order. Null cells contribute no
// distinct value.
func pivotCombinations(tbl *table.Table, on []string) []pivotCombination {
	distinct := make([][]interface{}, len(on))
	for i, name := range on {
		vec, _ := tbl.Column(name)
		seen := make(map[string]bool)
		for j := 0; j < tbl.NumRows(); j++ {
			if !vec.IsValid(j) {
				continue
			}
			v := vec.Get(j)
			key := bucketKey(v)
			if !seen[key] {
				seen[key] = true
				distinct[i] = append(distinct[i], v)
			}
		}
	}

	combos := []pivotCombination{{}}
	for _, values := range distinct {
		next := make([]pivotCombination, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				key := formatPivotValue(v)
				if combo.key != "" {
					key = combo.key + "_" + key
				}
				next = append(next, pivotCombination{
					values: append(append([]interface{}{}, combo.values...), v),
					key:    key,
				})
			}
		}
		combos = next
	}
	return combos
}

func formatPivotValue(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

// matchCombination filters a group's row indices to those whose On-column
// cells equal the combination's values.
func matchCombination(indices []int, onVecs []table.Vector, combo pivotCombination) []int {
	var matched []int
	for _, idx := range indices {
		match := true
		for i, vec := range onVecs {
			if !vec.IsValid(idx) || !equalValues(vec.Get(idx), combo.values[i]) {
				match = false
				break
			}
		}
		if match {
			matched = append(matched, idx)
		}
	}
	return matched
}

// pivotColumnName labels one (aggregation, combination) output column. An
// explicitly named aggregation prefixes the pivot key; a default name (the
// source field itself) is dropped from the label.
func pivotColumnName(agg Aggregation, pivotKey string) string {
	if agg.Name != "" && agg.Name != agg.Field {
		return agg.Name + "_" + pivotKey
	}
	return pivotKey
}

// Unpivot melts the configured value columns into name/value rows. The
// output has len(IDColumns)+2 columns regardless of how many columns were
// melted, and input-rows x value-columns rows.
func Unpivot(tbl *table.Table, spec UnpivotSpec) (*table.Table, error) {
	schema := tbl.Schema()
	if len(spec.ValueColumns) == 0 {
		return nil, validationErrorf("unpivot needs at least one value column")
	}
	for _, name := range append(append([]string{}, spec.IDColumns...), spec.ValueColumns...) {
		if !schema.Has(name) {
			return nil, &FieldNotFoundError{Field: name, Available: schema.Names()}
		}
	}

	nameCol := spec.NameColumn
	if nameCol == "" {
		nameCol = "name"
	}
	valueCol := spec.ValueColumn
	if valueCol == "" {
		valueCol = "value"
	}

	fields := make([]table.Field, 0, len(spec.IDColumns)+2)
	for _, name := range spec.IDColumns {
		f, _ := schema.Field(name)
		fields = append(fields, f)
	}
	fields = append(fields,
		table.Field{Name: nameCol, Type: table.String},
		table.Field{Name: valueCol, Type: table.Unknown, Nullable: true},
	)
	outSchema, err := table.NewSchema(fields...)
	if err != nil {
		return nil, validationErrorf("unpivot output columns collide: %v", err)
	}

	idVecs := make([]table.Vector, len(spec.IDColumns))
	for i, name := range spec.IDColumns {
		idVecs[i], _ = tbl.Column(name)
	}
	valueVecs := make([]table.Vector, len(spec.ValueColumns))
	for i, name := range spec.ValueColumns {
		valueVecs[i], _ = tbl.Column(name)
	}

	rows := make([]table.Row, 0, tbl.NumRows()*len(spec.ValueColumns))
	for i := 0; i < tbl.NumRows(); i++ {
		for j, vcName := range spec.ValueColumns {
			row := make(table.Row, len(fields))
			for k, idName := range spec.IDColumns {
				row[idName] = cellValue(idVecs[k], i)
			}
			row[nameCol] = vcName
			row[valueCol] = cellValue(valueVecs[j], i)
			rows = append(rows, row)
		}
	}

	return table.FromRows(outSchema, rows)
}
