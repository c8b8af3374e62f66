package query

import (
	"strconv"
	"strings"
)

// Parser parses WHERE-clause filter strings into condition trees.
//
// Grammar, precedence low to high (OR, AND, NOT, primary):
//
//	filterList := expr (AND expr)*
//	expr       := orExpr
//	orExpr     := andExpr (OR andExpr)*
//	andExpr    := notExpr (AND notExpr)*
//	notExpr    := NOT primary | primary
//	primary    := '(' expr ')'
//	            | IDENT comparisonOp value
//	            | IDENT IN '(' value (',' value)* ')'
//	            | IDENT LIKE STRING
//	value      := STRING | NUMBER | BOOLEAN
type Parser struct {
	tokens       []Token
	pos          int
	depthCounter *expressionDepthCounter
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:       tokens,
		pos:          0,
		depthCounter: newExpressionDepthCounter(),
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// errorf builds a ParseError at the current token.
func (p *Parser) errorf(msg string) *ParseError {
	tok := p.current()
	return &ParseError{Pos: tok.Pos, Token: tok.Value, Msg: msg}
}

// ParseFilter compiles a WHERE-clause body (no leading WHERE keyword) into
// the condition list the mask evaluator consumes. At the top level, AND also
// acts as the list separator, so "a = 1 AND b = 2" yields two conditions.
func ParseFilter(input string) ([]Condition, error) {
	if len(input) > MaxFilterLength {
		return nil, validationErrorf("%v: %d bytes (max %d)", ErrFilterTooLong, len(input), MaxFilterLength)
	}

	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) > MaxTokens {
		return nil, validationErrorf("%v: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}

	parser := NewParser(tokens)
	conds, err := parser.parseFilterList()
	if err != nil {
		return nil, err
	}

	if parser.current().Type != TokenEOF {
		return nil, parser.errorf("unexpected trailing tokens after filter")
	}

	return conds, nil
}

// parseFilterList parses: expr (AND expr)*
func (p *Parser) parseFilterList() ([]Condition, error) {
	var conds []Condition

	for {
		cond, err := p.parseOr(true)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)

		if p.current().Type != TokenAnd {
			break
		}
		p.advance()
	}

	return conds, nil
}

// parseExpr parses a full boolean expression
func (p *Parser) parseExpr() (Condition, error) {
	return p.parseOr(false)
}

// parseOr parses OR expressions (lowest precedence). At the top level the
// leftmost operand must not swallow AND, so the list separator survives; OR
// operands are no longer top-level and bind AND normally.
func (p *Parser) parseOr(top bool) (Condition, error) {
	if err := p.depthCounter.enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.exit()

	left, err := p.parseAnd(top)
	if err != nil {
		return nil, err
	}

	if p.current().Type != TokenOr {
		return left, nil
	}

	children := []Condition{left}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd(false)
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}

	return OrCondition{Children: children}, nil
}

// parseAnd parses AND expressions (higher precedence than OR). A top-level
// AND is left for parseFilterList to consume as the list separator.
func (p *Parser) parseAnd(top bool) (Condition, error) {
	if err := p.depthCounter.enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.exit()

	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	if top || p.current().Type != TokenAnd {
		return left, nil
	}

	children := []Condition{left}
	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}

	return AndCondition{Children: children}, nil
}

// parseNot parses: NOT primary | primary
func (p *Parser) parseNot() (Condition, error) {
	if p.current().Type == TokenNot {
		p.advance()
		child, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return NotCondition{Child: child}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses a parenthesized expression or a basic field predicate
func (p *Parser) parsePrimary() (Condition, error) {
	if err := p.depthCounter.enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.exit()

	if p.current().Type == TokenLeftParen {
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRightParen {
			return nil, p.errorf("expected ')'")
		}
		p.advance()
		return expr, nil
	}

	if p.current().Type != TokenIdent {
		return nil, p.errorf("expected field name")
	}
	field := p.current().Value
	p.advance()

	switch p.current().Type {
	case TokenIn:
		return p.parseInCondition(field)
	case TokenLike:
		return p.parseLikeCondition(field)
	}

	op, ok := comparisonOp(p.current().Type)
	if !ok {
		return nil, p.errorf("expected comparison operator, IN, or LIKE")
	}
	p.advance()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return FieldCondition{Field: field, Op: op, Value: value}, nil
}

// parseInCondition parses: IN '(' value (',' value)* ')'
func (p *Parser) parseInCondition(field string) (Condition, error) {
	p.advance() // skip IN

	if p.current().Type != TokenLeftParen {
		return nil, p.errorf("expected '(' after IN")
	}
	p.advance()

	var values []interface{}
	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	if p.current().Type != TokenRightParen {
		return nil, p.errorf("expected ',' or ')' in IN list")
	}
	p.advance()

	return FieldCondition{Field: field, Op: OpIn, Value: values}, nil
}

// parseLikeCondition parses: LIKE STRING and translates the pattern.
//
// Pattern translation: %inner% becomes contains(inner), a leading % alone
// becomes endsWith(rest), a trailing % alone becomes startsWith(rest), and a
// pattern without % becomes contains(pattern). LIKE never compiles to an
// exact-equality test.
func (p *Parser) parseLikeCondition(field string) (Condition, error) {
	p.advance() // skip LIKE

	if p.current().Type != TokenString {
		return nil, p.errorf("expected string pattern after LIKE")
	}
	pattern := p.current().Value
	p.advance()

	leading := strings.HasPrefix(pattern, "%")
	trailing := strings.HasSuffix(pattern, "%")

	switch {
	case leading && trailing && len(pattern) >= 2:
		return FieldCondition{Field: field, Op: OpContains, Value: pattern[1 : len(pattern)-1]}, nil
	case leading:
		return FieldCondition{Field: field, Op: OpEndsWith, Value: pattern[1:]}, nil
	case trailing:
		return FieldCondition{Field: field, Op: OpStartsWith, Value: pattern[:len(pattern)-1]}, nil
	default:
		return FieldCondition{Field: field, Op: OpContains, Value: pattern}, nil
	}
}

// parseValue parses a literal value: string, number, or boolean
func (p *Parser) parseValue() (interface{}, error) {
	switch p.current().Type {
	case TokenString:
		value := p.current().Value
		p.advance()
		return value, nil
	case TokenNumber:
		tok := p.current()
		p.advance()
		if intVal, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			return intVal, nil
		}
		if floatVal, err := strconv.ParseFloat(tok.Value, 64); err == nil {
			return floatVal, nil
		}
		return nil, &ParseError{Pos: tok.Pos, Token: tok.Value, Msg: "invalid number"}
	case TokenBool:
		value := strings.EqualFold(p.current().Value, "true")
		p.advance()
		return value, nil
	default:
		return nil, p.errorf("expected value (string, number, or boolean)")
	}
}

// comparisonOp maps a comparison token to its filter operator.
func comparisonOp(t TokenType) (Op, bool) {
	switch t {
	case TokenEqual:
		return OpEq, true
	case TokenNotEqual:
		return OpNeq, true
	case TokenGreater:
		return OpGt, true
	case TokenGreaterEqual:
		return OpGte, true
	case TokenLess:
		return OpLt, true
	case TokenLessEqual:
		return OpLte, true
	default:
		return "", false
	}
}
