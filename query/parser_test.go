package query

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFilter_SingleComparison(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FieldCondition
	}{
		{"eq string", "department = 'Eng'", Field("department", OpEq, "Eng")},
		{"neq bang", "age != 30", Field("age", OpNeq, int64(30))},
		{"neq angle", "age <> 30", Field("age", OpNeq, int64(30))},
		{"gt", "age > 30", Field("age", OpGt, int64(30))},
		{"gte", "age >= 30", Field("age", OpGte, int64(30))},
		{"lt", "age < 30", Field("age", OpLt, int64(30))},
		{"lte", "age <= 30", Field("age", OpLte, int64(30))},
		{"float value", "score > 3.5", Field("score", OpGt, 3.5)},
		{"bool value", "active = true", Field("active", OpEq, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds, err := ParseFilter(tt.input)
			if err != nil {
				t.Fatalf("ParseFilter(%q) error = %v", tt.input, err)
			}
			if len(conds) != 1 {
				t.Fatalf("ParseFilter(%q) = %d conditions, want 1", tt.input, len(conds))
			}
			if !reflect.DeepEqual(conds[0], tt.want) {
				t.Errorf("ParseFilter(%q) = %#v, want %#v", tt.input, conds[0], tt.want)
			}
		})
	}
}

func TestParseFilter_TopLevelAndIsListSeparator(t *testing.T) {
	conds, err := ParseFilter("department = 'Eng' AND age > 30 AND age < 45")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	if len(conds) != 3 {
		t.Fatalf("got %d conditions, want 3", len(conds))
	}
	for i, cond := range conds {
		if _, ok := cond.(FieldCondition); !ok {
			t.Errorf("entry %d = %T, want FieldCondition", i, cond)
		}
	}
}

func TestParseFilter_TopLevelAndBeforeOr(t *testing.T) {
	// The leading AND separates list entries; the OR stays inside the
	// second entry.
	conds, err := ParseFilter("a = 1 AND b = 2 OR c = 3")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	if len(conds) != 2 {
		t.Fatalf("got %d conditions, want 2", len(conds))
	}
	if _, ok := conds[0].(FieldCondition); !ok {
		t.Errorf("first = %T, want FieldCondition", conds[0])
	}
	if _, ok := conds[1].(OrCondition); !ok {
		t.Errorf("second = %T, want OrCondition", conds[1])
	}
}

func TestParseFilter_ParenthesizedAndStaysNested(t *testing.T) {
	conds, err := ParseFilter("(a = 1 AND b = 2) AND c = 3")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	if len(conds) != 2 {
		t.Fatalf("got %d conditions, want 2", len(conds))
	}
	and, ok := conds[0].(AndCondition)
	if !ok {
		t.Fatalf("first = %T, want AndCondition", conds[0])
	}
	if len(and.Children) != 2 {
		t.Errorf("nested and has %d children, want 2", len(and.Children))
	}
}

func TestParseFilter_OrPrecedence(t *testing.T) {
	// OR binds looser than AND: a OR b AND c == a OR (b AND c)
	conds, err := ParseFilter("a = 1 OR b = 2 AND c = 3")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	if len(conds) != 1 {
		t.Fatalf("got %d conditions, want 1", len(conds))
	}
	or, ok := conds[0].(OrCondition)
	if !ok {
		t.Fatalf("top = %T, want OrCondition", conds[0])
	}
	if len(or.Children) != 2 {
		t.Fatalf("or has %d children, want 2", len(or.Children))
	}
	if _, ok := or.Children[1].(AndCondition); !ok {
		t.Errorf("right child = %T, want AndCondition", or.Children[1])
	}
}

func TestParseFilter_ParensOverridePrecedence(t *testing.T) {
	conds, err := ParseFilter("(a = 1 OR b = 2) AND c = 3")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	// Top-level AND splits into two list entries: the parenthesized OR and
	// the comparison.
	if len(conds) != 2 {
		t.Fatalf("got %d conditions, want 2", len(conds))
	}
	if _, ok := conds[0].(OrCondition); !ok {
		t.Errorf("first = %T, want OrCondition", conds[0])
	}
	if _, ok := conds[1].(FieldCondition); !ok {
		t.Errorf("second = %T, want FieldCondition", conds[1])
	}
}

func TestParseFilter_Not(t *testing.T) {
	conds, err := ParseFilter("NOT department = 'Eng'")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	not, ok := conds[0].(NotCondition)
	if !ok {
		t.Fatalf("top = %T, want NotCondition", conds[0])
	}
	if !reflect.DeepEqual(not.Child, Field("department", OpEq, "Eng")) {
		t.Errorf("child = %#v", not.Child)
	}
}

func TestParseFilter_In(t *testing.T) {
	conds, err := ParseFilter("id IN (1, 2, 'three', true)")
	if err != nil {
		t.Fatalf("ParseFilter() error = %v", err)
	}
	want := Field("id", OpIn, []interface{}{int64(1), int64(2), "three", true})
	if !reflect.DeepEqual(conds[0], want) {
		t.Errorf("got %#v, want %#v", conds[0], want)
	}
}

func TestParseFilter_LikeTranslation(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantOp  Op
		wantVal string
	}{
		{"wrapped becomes contains", "'%li%'", OpContains, "li"},
		{"leading becomes endsWith", "'%son'", OpEndsWith, "son"},
		{"trailing becomes startsWith", "'Ali%'", OpStartsWith, "Ali"},
		{"bare becomes contains, never equality", "'Alice'", OpContains, "Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds, err := ParseFilter("name LIKE " + tt.pattern)
			if err != nil {
				t.Fatalf("ParseFilter() error = %v", err)
			}
			want := Field("name", tt.wantOp, tt.wantVal)
			if !reflect.DeepEqual(conds[0], want) {
				t.Errorf("got %#v, want %#v", conds[0], want)
			}
		})
	}
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing value", "age ="},
		{"missing operator", "age 30"},
		{"missing close paren", "(a = 1"},
		{"empty in list", "id IN ()"},
		{"like needs string", "name LIKE 42"},
		{"trailing tokens", "a = 1 b"},
		{"dangling and", "a = 1 AND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.input)
			if err == nil {
				t.Fatalf("ParseFilter(%q) expected error", tt.input)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error = %T, want *ParseError", err)
			}
		})
	}
}

func TestParseFilter_TooDeep(t *testing.T) {
	var input string
	for i := 0; i < MaxExpressionDepth; i++ {
		input += "("
	}
	input += "a = 1"
	for i := 0; i < MaxExpressionDepth; i++ {
		input += ")"
	}

	_, err := ParseFilter(input)
	if err == nil {
		t.Fatal("expected nesting depth error")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("error = %T, want *ValidationError", err)
	}
}
