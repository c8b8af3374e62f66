package table

// Vector is a nullable, indexable column of values. Implementations must be
// immutable once handed to a Table.
type Vector interface {
	// Len returns the number of values, including nulls.
	Len() int

	// IsValid reports whether the value at i is non-null.
	IsValid(i int) bool

	// Get returns the value at i, or nil when the value is null.
	Get(i int) interface{}
}

// Values is the in-memory Vector implementation: a plain value slice where a
// nil element is a null cell.
type Values []interface{}

// Len returns the number of values.
func (v Values) Len() int {
	return len(v)
}

// IsValid reports whether the value at i is non-null.
func (v Values) IsValid(i int) bool {
	return v[i] != nil
}

// Get returns the value at i.
func (v Values) Get(i int) interface{} {
	return v[i]
}

// sliceVector is a zero-copy window over another vector. It backs
// Table.Slice so pagination never materializes per-row buffers.
type sliceVector struct {
	base  Vector
	start int
	end   int
}

func (v sliceVector) Len() int {
	return v.end - v.start
}

func (v sliceVector) IsValid(i int) bool {
	return v.base.IsValid(v.start + i)
}

func (v sliceVector) Get(i int) interface{} {
	return v.base.Get(v.start + i)
}
