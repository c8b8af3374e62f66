package query

// Op is a filter comparison operator. Operators outside this set are
// permitted and match every row; see applyField.
type Op string

const (
	OpEq         Op = "eq"
	OpNeq        Op = "neq"
	OpGt         Op = "gt"
	OpGte        Op = "gte"
	OpLt         Op = "lt"
	OpLte        Op = "lte"
	OpContains   Op = "contains"
	OpStartsWith Op = "startsWith"
	OpEndsWith   Op = "endsWith"
	OpIn         Op = "in"
)

// Condition is one node of a filter tree: a basic field predicate or a
// boolean combination of other conditions.
type Condition interface {
	isCondition()
}

// FieldCondition is a basic predicate over one column. Value is the literal
// to compare against; nil means SQL-style null. For OpIn, Value is an
// []interface{} of members.
type FieldCondition struct {
	Field string
	Op    Op
	Value interface{}
}

// AndCondition keeps rows matching every child.
type AndCondition struct {
	Children []Condition
}

// OrCondition keeps rows matching at least one child.
type OrCondition struct {
	Children []Condition
}

// NotCondition keeps rows its child drops.
type NotCondition struct {
	Child Condition
}

func (FieldCondition) isCondition() {}
func (AndCondition) isCondition()   {}
func (OrCondition) isCondition()    {}
func (NotCondition) isCondition()   {}

// Field builds a basic field predicate.
func Field(field string, op Op, value interface{}) FieldCondition {
	return FieldCondition{Field: field, Op: op, Value: value}
}

// And combines conditions conjunctively.
func And(conds ...Condition) AndCondition {
	return AndCondition{Children: conds}
}

// Or combines conditions disjunctively.
func Or(conds ...Condition) OrCondition {
	return OrCondition{Children: conds}
}

// Not negates a condition.
func Not(cond Condition) NotCondition {
	return NotCondition{Child: cond}
}
