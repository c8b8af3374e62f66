package query

import (
	"strings"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenAnd TokenType = iota
	TokenOr
	TokenNot
	TokenIn
	TokenLike

	// Operators
	TokenEqual        // =
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Literals
	TokenString
	TokenNumber
	TokenIdent
	TokenBool

	// Delimiters
	TokenComma      // ,
	TokenLeftParen  // (
	TokenRightParen // )

	// Special
	TokenEOF
	TokenError
)

// Token represents a lexical token and the byte position where it starts.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Lexer tokenizes WHERE-clause filter strings
type Lexer struct {
	input string
	pos   int
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = rune(l.input[l.pos])
	}
	l.pos++
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return rune(l.input[l.pos])
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a single-quoted string with \-escapes. Reports whether the
// closing quote was found.
func (l *Lexer) readString() (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != '\'' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case '\\':
				result.WriteRune('\\')
			case '\'':
				result.WriteRune('\'')
			default:
				result.WriteRune(l.ch)
			}
		} else {
			result.WriteRune(l.ch)
		}
		l.readChar()
	}

	if l.ch != '\'' {
		return result.String(), false
	}
	l.readChar() // skip closing quote
	return result.String(), true
}

// readNumber reads an integer or decimal number
func (l *Lexer) readNumber() string {
	var result strings.Builder

	if l.ch == '-' {
		result.WriteRune(l.ch)
		l.readChar()
	}

	for unicode.IsDigit(l.ch) || l.ch == '.' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' || l.ch == '.' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.pos - 1
	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF, Pos: start}
	case '=':
		tok = Token{Type: TokenEqual, Value: "=", Pos: start}
		l.readChar()
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "!=", Pos: start}
			l.readChar()
		} else {
			tok = Token{Type: TokenError, Value: "!", Pos: start}
			l.readChar()
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = Token{Type: TokenLessEqual, Value: "<=", Pos: start}
			l.readChar()
		case '>':
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "<>", Pos: start}
			l.readChar()
		default:
			tok = Token{Type: TokenLess, Value: "<", Pos: start}
			l.readChar()
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenGreaterEqual, Value: ">=", Pos: start}
			l.readChar()
		} else {
			tok = Token{Type: TokenGreater, Value: ">", Pos: start}
			l.readChar()
		}
	case '\'':
		value, terminated := l.readString()
		if !terminated {
			tok = Token{Type: TokenError, Value: "'", Pos: start}
		} else {
			tok = Token{Type: TokenString, Value: value, Pos: start}
		}
	case ',':
		tok = Token{Type: TokenComma, Value: ",", Pos: start}
		l.readChar()
	case '(':
		tok = Token{Type: TokenLeftParen, Value: "(", Pos: start}
		l.readChar()
	case ')':
		tok = Token{Type: TokenRightParen, Value: ")", Pos: start}
		l.readChar()
	default:
		if unicode.IsDigit(l.ch) || l.ch == '-' {
			value := l.readNumber()
			if value == "-" {
				tok = Token{Type: TokenError, Value: "-", Pos: start}
			} else {
				tok = Token{Type: TokenNumber, Value: value, Pos: start}
			}
		} else if unicode.IsLetter(l.ch) || l.ch == '_' {
			value := l.readIdentifier()
			tok = Token{Type: identifierType(value), Value: value, Pos: start}
		} else {
			tok = Token{Type: TokenError, Value: string(l.ch), Pos: start}
			l.readChar()
		}
	}

	return tok
}

// identifierType determines if an identifier is a keyword. Keywords and
// booleans match case-insensitively.
func identifierType(ident string) TokenType {
	switch strings.ToLower(ident) {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	case "not":
		return TokenNot
	case "in":
		return TokenIn
	case "like":
		return TokenLike
	case "true", "false":
		return TokenBool
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input. A lexical error (unexpected
// character or unterminated string) is reported with its position.
func Tokenize(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		if tok.Type == TokenError {
			msg := "unexpected character"
			if tok.Value == "'" {
				msg = "unterminated string literal"
			}
			return nil, &ParseError{Pos: tok.Pos, Token: tok.Value, Msg: msg}
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
