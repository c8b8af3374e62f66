// Package query implements the engine core: structured filter conditions, a
// SQL WHERE-clause lexer and parser that compiles text into the same
// condition tree, the vectorized mask evaluator that turns conditions into
// per-row keep/drop masks, and the group-by/pivot/unpivot aggregation engine.
//
// Example usage:
//
//	conds, err := query.ParseFilter("department = 'Eng' AND age > 30")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	filtered, err := query.Filter(tbl, conds...)
package query
