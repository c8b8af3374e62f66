package query

import (
	"errors"
	"testing"
)

func TestTokenize_Operators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"equal", "age = 30", []TokenType{TokenIdent, TokenEqual, TokenNumber, TokenEOF}},
		{"not equal bang", "age != 30", []TokenType{TokenIdent, TokenNotEqual, TokenNumber, TokenEOF}},
		{"not equal angle", "age <> 30", []TokenType{TokenIdent, TokenNotEqual, TokenNumber, TokenEOF}},
		{"less", "age < 30", []TokenType{TokenIdent, TokenLess, TokenNumber, TokenEOF}},
		{"less equal", "age <= 30", []TokenType{TokenIdent, TokenLessEqual, TokenNumber, TokenEOF}},
		{"greater", "age > 30", []TokenType{TokenIdent, TokenGreater, TokenNumber, TokenEOF}},
		{"greater equal", "age >= 30", []TokenType{TokenIdent, TokenGreaterEqual, TokenNumber, TokenEOF}},
		{"in list", "id IN (1, 2)", []TokenType{TokenIdent, TokenIn, TokenLeftParen, TokenNumber, TokenComma, TokenNumber, TokenRightParen, TokenEOF}},
		{"like", "name LIKE '%li%'", []TokenType{TokenIdent, TokenLike, TokenString, TokenEOF}},
		{"booleans", "active = TRUE OR active = false", []TokenType{TokenIdent, TokenEqual, TokenBool, TokenOr, TokenIdent, TokenEqual, TokenBool, TokenEOF}},
		{"not paren", "NOT (a = 1)", []TokenType{TokenNot, TokenLeftParen, TokenIdent, TokenEqual, TokenNumber, TokenRightParen, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", tt.input, err)
			}
			if len(tokens) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %d tokens, want %d", tt.input, len(tokens), len(tt.want))
			}
			for i, tok := range tokens {
				if tok.Type != tt.want[i] {
					t.Errorf("token %d = %v, want %v", i, tok.Type, tt.want[i])
				}
			}
		})
	}
}

func TestTokenize_StringEscapes(t *testing.T) {
	tokens, err := Tokenize(`name = 'O\'Brien'`)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if tokens[2].Type != TokenString || tokens[2].Value != "O'Brien" {
		t.Errorf("string token = %q, want %q", tokens[2].Value, "O'Brien")
	}
}

func TestTokenize_KeywordsCaseInsensitive(t *testing.T) {
	tokens, err := Tokenize("a = 1 and b = 2 Or NOT c In (3) LiKe")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	types := map[TokenType]bool{}
	for _, tok := range tokens {
		types[tok.Type] = true
	}
	for _, want := range []TokenType{TokenAnd, TokenOr, TokenNot, TokenIn, TokenLike} {
		if !types[want] {
			t.Errorf("missing keyword token %v", want)
		}
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("age >= 30")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	wantPos := []int{0, 4, 7}
	for i, want := range wantPos {
		if tokens[i].Pos != want {
			t.Errorf("token %d pos = %d, want %d", i, tokens[i].Pos, want)
		}
	}
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize("name = 'abc")
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if parseErr.Pos != 7 {
		t.Errorf("error pos = %d, want 7", parseErr.Pos)
	}
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("age # 3")
	if err == nil {
		t.Fatal("expected error for unexpected character")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if parseErr.Token != "#" {
		t.Errorf("error token = %q, want %q", parseErr.Token, "#")
	}
}

func TestTokenize_Numbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a = 42", "42"},
		{"a = -7", "-7"},
		{"a = 3.14", "3.14"},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) error = %v", tt.input, err)
		}
		if tokens[2].Type != TokenNumber || tokens[2].Value != tt.want {
			t.Errorf("Tokenize(%q) number = %q, want %q", tt.input, tokens[2].Value, tt.want)
		}
	}
}
