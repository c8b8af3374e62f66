package query

import "errors"

// Input limits to prevent resource exhaustion on untrusted filter strings.
const (
	// MaxFilterLength is the maximum allowed filter string length (1MB)
	MaxFilterLength = 1024 * 1024

	// MaxTokens is the maximum number of tokens in a filter
	MaxTokens = 1000

	// MaxExpressionDepth is the maximum nesting depth for expressions
	MaxExpressionDepth = 100
)

var (
	// ErrFilterTooLong is returned when a filter exceeds MaxFilterLength
	ErrFilterTooLong = errors.New("filter too long")

	// ErrTooManyTokens is returned when a filter has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in filter")

	// ErrExpressionTooDeep is returned when expression nesting exceeds limit
	ErrExpressionTooDeep = errors.New("expression nesting too deep")
)

// expressionDepthCounter tracks expression nesting depth during parsing.
type expressionDepthCounter struct {
	depth    int
	maxDepth int
}

func newExpressionDepthCounter() *expressionDepthCounter {
	return &expressionDepthCounter{depth: 0, maxDepth: MaxExpressionDepth}
}

// enter increments depth and returns an error if the limit is exceeded.
func (c *expressionDepthCounter) enter() error {
	c.depth++
	if c.depth > c.maxDepth {
		return validationErrorf("%v: %d (max %d)", ErrExpressionTooDeep, c.depth, c.maxDepth)
	}
	return nil
}

// exit decrements depth.
func (c *expressionDepthCounter) exit() {
	c.depth--
}
