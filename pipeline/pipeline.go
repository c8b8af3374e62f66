// Package pipeline provides the lazy operation queue over a table:
// transformation methods append steps and return a new handle, and nothing
// executes until Resolve or Flush walks the queue.
//
// A handle is single-owner: resolving the same handle from two goroutines
// concurrently is not supported.
package pipeline

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"

	"github.com/vegasq/colframe/query"
	"github.com/vegasq/colframe/table"
)

// stepBatchSize is how many queued steps run between cooperative yields
// during resolution.
const stepBatchSize = 10

// RowMapper transforms one materialized row into another. The result schema
// cannot be derived from an opaque function, so Map takes it explicitly.
type RowMapper func(row table.Row) table.Row

// Projection renames an input column into an output column. A chain of
// projections is the declarative, vectorized alternative to Map.
type Projection struct {
	Out string
	In  string
}

// OperationError wraps a step failure during resolution with the operation's
// description and the owning handle.
type OperationError struct {
	Handle string
	Op     string
	Err    error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %q failed on pipeline %s: %v", e.Op, e.Handle, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Pipeline is a handle over an immutable base table and a FIFO queue of
// pending transformation steps.
type Pipeline struct {
	id    string
	tbl   *table.Table
	steps []step
}

// New wraps a table in a pipeline handle with an empty step queue.
func New(tbl *table.Table) *Pipeline {
	return &Pipeline{id: uuid.NewString(), tbl: tbl}
}

// ID returns the handle's identity, used in operation error context.
func (p *Pipeline) ID() string {
	return p.id
}

// Table returns the handle's current table without resolving pending steps.
func (p *Pipeline) Table() *table.Table {
	return p.tbl
}

// Pending returns the number of queued, unresolved steps.
func (p *Pipeline) Pending() int {
	return len(p.steps)
}

// with returns a new handle sharing the base table, with the step appended.
// The queue is copied so sibling handles never alias each other's tails.
func (p *Pipeline) with(s step) *Pipeline {
	steps := make([]step, 0, len(p.steps)+1)
	steps = append(steps, p.steps...)
	steps = append(steps, s)
	return &Pipeline{id: p.id, tbl: p.tbl, steps: steps}
}

// Filter queues a structured-condition filter.
func (p *Pipeline) Filter(conds ...query.Condition) *Pipeline {
	return p.with(step{kind: stepFilter, conds: conds})
}

// FilterSQL queues a filter given as a WHERE-clause body.
func (p *Pipeline) FilterSQL(where string) *Pipeline {
	return p.with(step{kind: stepFilterSQL, sql: where})
}

// Sort queues a multi-column sort.
func (p *Pipeline) Sort(by ...query.OrderBy) *Pipeline {
	return p.with(step{kind: stepSort, sortBy: by})
}

// Select queues a column projection. Delegates to native table selection
// without materializing rows.
func (p *Pipeline) Select(fields ...string) *Pipeline {
	return p.with(step{kind: stepSelect, fields: fields})
}

// Slice queues a row window [start, end). Delegates to native table slicing.
func (p *Pipeline) Slice(start, end int) *Pipeline {
	return p.with(step{kind: stepSlice, start: start, end: end})
}

// Paginate queues a page window. Pages are 1-based.
func (p *Pipeline) Paginate(page, perPage int) *Pipeline {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	return p.with(step{kind: stepSlice, start: start, end: start + perPage})
}

// Map queues a row-wise transformation into the given result schema. Rows
// are materialized in fixed-size batches, so peak memory stays proportional
// to the batch size.
func (p *Pipeline) Map(schema table.Schema, fn RowMapper) *Pipeline {
	return p.with(step{kind: stepMap, schema: schema, mapFn: fn})
}

// Project queues a declarative column projection/rename, executed
// vectorized without materializing rows.
func (p *Pipeline) Project(projs ...Projection) *Pipeline {
	return p.with(step{kind: stepProject, projs: projs})
}

// GroupBy queues a group-by aggregation.
func (p *Pipeline) GroupBy(column string, aggs ...query.Aggregation) *Pipeline {
	return p.with(step{kind: stepGroupBy, column: column, aggs: aggs})
}

// Pivot queues a pivot reshape.
func (p *Pipeline) Pivot(spec query.PivotSpec) *Pipeline {
	return p.with(step{kind: stepPivot, pivot: spec})
}

// Unpivot queues an unpivot reshape.
func (p *Pipeline) Unpivot(spec query.UnpivotSpec) *Pipeline {
	return p.with(step{kind: stepUnpivot, unpivot: spec})
}

// Resolve executes the queued steps strictly in FIFO order and returns the
// materialized table. Steps run in fixed-size batches with a cooperative
// yield between batches. On success the queue is cleared and the result is
// stored on the handle, so repeat resolves are free until new steps are
// appended. On failure the handle is left untouched and the error is wrapped
// with the failing operation's context; resolving again retries the same
// queue.
func (p *Pipeline) Resolve() (*table.Table, error) {
	if len(p.steps) == 0 {
		return p.tbl, nil
	}

	cur := p.tbl
	for batchStart := 0; batchStart < len(p.steps); batchStart += stepBatchSize {
		batchEnd := batchStart + stepBatchSize
		if batchEnd > len(p.steps) {
			batchEnd = len(p.steps)
		}
		for _, s := range p.steps[batchStart:batchEnd] {
			next, err := s.apply(cur)
			if err != nil {
				return nil, &OperationError{Handle: p.id, Op: s.describe(), Err: err}
			}
			cur = next
		}
		runtime.Gosched()
	}

	p.steps = nil
	p.tbl = cur
	return cur, nil
}

// Flush resolves the queue and returns a new handle wrapping only the
// resolved table, with no pending steps.
func (p *Pipeline) Flush() (*Pipeline, error) {
	tbl, err := p.Resolve()
	if err != nil {
		return nil, err
	}
	return New(tbl), nil
}
