package query

import "math"

// toFloat64 converts a value to float64 if possible
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// toString converts a value to string if possible
func toString(v interface{}) (string, bool) {
	if str, ok := v.(string); ok {
		return str, true
	}
	return "", false
}

// toBool converts a value to bool if possible
func toBool(v interface{}) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	return false, false
}

// numbersEqual compares floats with an epsilon scaled by magnitude, so
// int64/float64 cross-type equality behaves sanely.
func numbersEqual(left, right float64) bool {
	const epsilon = 1e-9
	diff := math.Abs(left - right)
	maxAbs := math.Max(math.Abs(left), math.Abs(right))
	threshold := epsilon * math.Max(1.0, maxAbs)
	return diff < threshold
}

// equalValues reports whether two non-null values are equal. Values of
// incomparable types are unequal, never an error.
func equalValues(left, right interface{}) bool {
	leftNum, leftIsNum := toFloat64(left)
	rightNum, rightIsNum := toFloat64(right)
	if leftIsNum && rightIsNum {
		return numbersEqual(leftNum, rightNum)
	}

	leftStr, leftIsStr := toString(left)
	rightStr, rightIsStr := toString(right)
	if leftIsStr && rightIsStr {
		return leftStr == rightStr
	}

	leftBool, leftIsBool := toBool(left)
	rightBool, rightIsBool := toBool(right)
	if leftIsBool && rightIsBool {
		return leftBool == rightBool
	}

	return false
}

// orderedCompare evaluates an ordering operator over two non-null values.
// Ordering is numeric only: a non-numeric cell never satisfies an ordering
// operator.
func orderedCompare(cell interface{}, op Op, value interface{}) bool {
	cellNum, cellIsNum := toFloat64(cell)
	valueNum, valueIsNum := toFloat64(value)
	if !cellIsNum || !valueIsNum {
		return false
	}

	switch op {
	case OpGt:
		return cellNum > valueNum
	case OpGte:
		return cellNum >= valueNum
	case OpLt:
		return cellNum < valueNum
	case OpLte:
		return cellNum <= valueNum
	default:
		return false
	}
}

// compareValues orders two values for sorting and returns -1, 0, or +1.
// Nulls sort before everything; incomparable types compare equal.
func compareValues(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	aNum, aIsNum := toFloat64(a)
	bNum, bIsNum := toFloat64(b)
	if aIsNum && bIsNum {
		if aNum < bNum {
			return -1
		}
		if aNum > bNum {
			return 1
		}
		return 0
	}

	aStr, aIsStr := toString(a)
	bStr, bIsStr := toString(b)
	if aIsStr && bIsStr {
		if aStr < bStr {
			return -1
		}
		if aStr > bStr {
			return 1
		}
		return 0
	}

	aBool, aIsBool := toBool(a)
	bBool, bIsBool := toBool(b)
	if aIsBool && bIsBool {
		if !aBool && bBool {
			return -1
		}
		if aBool && !bBool {
			return 1
		}
		return 0
	}

	return 0
}
