package query

import (
	"strings"

	"github.com/vegasq/colframe/table"
)

// rowBatchSize bounds how many rows a materializing loop touches before
// moving to the next chunk, for cache locality on wide tables.
const rowBatchSize = 1024

// Mask is a per-row keep/drop byte array: 1 keeps the row, 0 drops it. A mask
// always has the same length as the table it was computed against.
type Mask []byte

// NewMask returns an all-ones mask of length n.
func NewMask(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = 1
	}
	return m
}

// CountKept returns the number of rows the mask keeps.
func (m Mask) CountKept() int {
	kept := 0
	for _, b := range m {
		if b == 1 {
			kept++
		}
	}
	return kept
}

// and clears every bit of m that other drops.
func (m Mask) and(other Mask) {
	for i := range m {
		if other[i] == 0 {
			m[i] = 0
		}
	}
}

// or sets every bit of m that other keeps.
func (m Mask) or(other Mask) {
	for i := range m {
		if other[i] == 1 {
			m[i] = 1
		}
	}
}

// invert flips every bit of m.
func (m Mask) invert() {
	for i := range m {
		m[i] ^= 1
	}
}

// Validate walks a condition tree and verifies shape and field references
// against the schema. It runs before any mask work; a failure here means no
// rows were scanned.
func Validate(schema table.Schema, conds ...Condition) error {
	for _, cond := range conds {
		if err := validateCondition(schema, cond); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(schema table.Schema, cond Condition) error {
	switch c := cond.(type) {
	case FieldCondition:
		if c.Field == "" {
			return validationErrorf("field condition has an empty field name")
		}
		if !schema.Has(c.Field) {
			return &FieldNotFoundError{Field: c.Field, Available: schema.Names()}
		}
		return nil
	case AndCondition:
		return Validate(schema, c.Children...)
	case OrCondition:
		return Validate(schema, c.Children...)
	case NotCondition:
		if c.Child == nil {
			return validationErrorf("NOT condition has no child")
		}
		return validateCondition(schema, c.Child)
	case nil:
		return validationErrorf("condition is nil")
	default:
		return validationErrorf("unsupported condition type %T", cond)
	}
}

// BuildMask validates the conditions and evaluates them into a keep/drop mask
// over the table. The top-level condition list is AND-ed: every condition
// narrows the same mask.
func BuildMask(tbl *table.Table, conds ...Condition) (Mask, error) {
	if err := Validate(tbl.Schema(), conds...); err != nil {
		return nil, err
	}

	mask := NewMask(tbl.NumRows())
	for _, cond := range conds {
		applyCondition(tbl, cond, mask)
	}
	return mask, nil
}

// applyCondition narrows mask in place according to cond. Conditions were
// validated already, so field lookups cannot fail here.
func applyCondition(tbl *table.Table, cond Condition, mask Mask) {
	switch c := cond.(type) {
	case FieldCondition:
		applyField(tbl, c, mask)
	case AndCondition:
		// Children fold over the same mask: each narrows further.
		for _, child := range c.Children {
			applyCondition(tbl, child, mask)
		}
	case OrCondition:
		combined := make(Mask, len(mask))
		for _, child := range c.Children {
			childMask := NewMask(len(mask))
			applyCondition(tbl, child, childMask)
			combined.or(childMask)
		}
		mask.and(combined)
	case NotCondition:
		childMask := NewMask(len(mask))
		applyCondition(tbl, c.Child, childMask)
		childMask.invert()
		mask.and(childMask)
	}
}

// applyField evaluates a basic predicate over every row still kept by the
// mask, clearing the bits that fail. Rows already dropped are skipped.
func applyField(tbl *table.Table, c FieldCondition, mask Mask) {
	col, _ := tbl.Column(c.Field)

	switch c.Op {
	case OpEq:
		for i := range mask {
			if mask[i] == 0 {
				continue
			}
			if c.Value == nil {
				// eq null keeps only null cells
				if col.IsValid(i) {
					mask[i] = 0
				}
				continue
			}
			if !col.IsValid(i) || !equalValues(col.Get(i), c.Value) {
				mask[i] = 0
			}
		}
	case OpNeq:
		for i := range mask {
			if mask[i] == 0 {
				continue
			}
			if c.Value == nil {
				// neq null keeps only non-null cells
				if !col.IsValid(i) {
					mask[i] = 0
				}
				continue
			}
			if !col.IsValid(i) {
				// null differs from any non-null value, keep
				continue
			}
			if equalValues(col.Get(i), c.Value) {
				mask[i] = 0
			}
		}
	case OpGt, OpGte, OpLt, OpLte:
		for i := range mask {
			if mask[i] == 0 {
				continue
			}
			if c.Value == nil || !col.IsValid(i) || !orderedCompare(col.Get(i), c.Op, c.Value) {
				mask[i] = 0
			}
		}
	case OpContains, OpStartsWith, OpEndsWith:
		pattern, patternOK := toString(c.Value)
		for i := range mask {
			if mask[i] == 0 {
				continue
			}
			if !patternOK || !col.IsValid(i) {
				mask[i] = 0
				continue
			}
			cell, cellIsStr := toString(col.Get(i))
			if !cellIsStr || !stringTest(cell, c.Op, pattern) {
				mask[i] = 0
			}
		}
	case OpIn:
		values := inValues(c.Value)
		for i := range mask {
			if mask[i] == 0 {
				continue
			}
			if values == nil {
				mask[i] = 0
				continue
			}
			if !col.IsValid(i) {
				// a null cell matches only when null is itself a member
				if !containsNull(values) {
					mask[i] = 0
				}
				continue
			}
			if !containsValue(values, col.Get(i)) {
				mask[i] = 0
			}
		}
	default:
		// Unrecognized operators leave the mask untouched. Permissive by
		// contract: callers depend on unknown operators not filtering.
	}
}

func stringTest(cell string, op Op, pattern string) bool {
	switch op {
	case OpContains:
		return strings.Contains(cell, pattern)
	case OpStartsWith:
		return strings.HasPrefix(cell, pattern)
	case OpEndsWith:
		return strings.HasSuffix(cell, pattern)
	default:
		return false
	}
}

// inValues normalizes an OpIn value into a member slice, or nil when the
// value is null or not a slice.
func inValues(v interface{}) []interface{} {
	if v == nil {
		return nil
	}
	values, ok := v.([]interface{})
	if !ok {
		return nil
	}
	return values
}

func containsNull(values []interface{}) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}

func containsValue(values []interface{}, cell interface{}) bool {
	for _, v := range values {
		if v != nil && equalValues(cell, v) {
			return true
		}
	}
	return false
}

// ApplyMask materializes the rows a mask keeps. Zero kept rows yield an empty
// table with the same schema; a mask keeping everything returns the input
// table unchanged without copying. Otherwise exactly-sized column buffers are
// filled in fixed-size batches, preserving column order and nullability.
func ApplyMask(tbl *table.Table, mask Mask) *table.Table {
	kept := mask.CountKept()
	if kept == 0 {
		return tbl.Empty()
	}
	if kept == tbl.NumRows() {
		return tbl
	}

	indices := make([]int, 0, kept)
	for start := 0; start < len(mask); start += rowBatchSize {
		end := start + rowBatchSize
		if end > len(mask) {
			end = len(mask)
		}
		for i := start; i < end; i++ {
			if mask[i] == 1 {
				indices = append(indices, i)
			}
		}
	}
	return tbl.Gather(indices)
}

// Filter validates, builds, and applies a mask in one step.
func Filter(tbl *table.Table, conds ...Condition) (*table.Table, error) {
	mask, err := BuildMask(tbl, conds...)
	if err != nil {
		return nil, err
	}
	return ApplyMask(tbl, mask), nil
}
