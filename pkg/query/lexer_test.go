package query

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []Token
	}{
		{
			name:  "conjunction",
			query: "a=1 && b=2",
			expected: []Token{
				{TokenIdent, "a", 0},
				{TokenEq, "=", 1},
				{TokenLiteral, "1", 2},
				{TokenAnd, "&&", 4},
				{TokenIdent, "b", 7},
				{TokenEq, "=", 8},
				{TokenLiteral, "2", 9},
			},
		},
		{
			name:  "single ampersand and not-equal",
			query: "a!=x&b=y",
			expected: []Token{
				{TokenIdent, "a", 0},
				{TokenNeq, "!=", 1},
				{TokenLiteral, "x", 3},
				{TokenAnd, "&", 4},
				{TokenIdent, "b", 5},
				{TokenEq, "=", 6},
				{TokenLiteral, "y", 7},
			},
		},
		{
			name:  "pattern keeps nested alternation",
			query: "name=^(foo|bar)$ || alias=x",
			expected: []Token{
				{TokenIdent, "name", 0},
				{TokenEq, "=", 4},
				{TokenLiteral, "^(foo|bar)$", 5},
				{TokenOr, "||", 17},
				{TokenIdent, "alias", 20},
				{TokenEq, "=", 25},
				{TokenLiteral, "x", 26},
			},
		},
		{
			name:  "group",
			query: "(name = a b)",
			expected: []Token{
				{TokenLParen, "(", 0},
				{TokenIdent, "name", 1},
				{TokenEq, "=", 6},
				{TokenLiteral, "a b", 8},
				{TokenRParen, ")", 11},
			},
		},
		{
			name:  "literal position skips leading space",
			query: "alias!=   ^x$ & name=y",
			expected: []Token{
				{TokenIdent, "alias", 0},
				{TokenNeq, "!=", 5},
				{TokenLiteral, "^x$", 10},
				{TokenAnd, "&", 14},
				{TokenIdent, "name", 16},
				{TokenEq, "=", 20},
				{TokenLiteral, "y", 21},
			},
		},
		{
			name:  "empty pattern",
			query: "a=",
			expected: []Token{
				{TokenIdent, "a", 0},
				{TokenEq, "=", 1},
				{TokenLiteral, "", 2},
			},
		},
		{
			name:     "blank",
			query:    "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.query)
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", tt.query, err)
			}
			if diff := cmp.Diff(tt.expected, tokens); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestTokenizeSinglePipe(t *testing.T) {
	_, err := Tokenize("a | b")
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("Expected syntax error, got %v", err)
	}
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) || syntaxErr.Pos != 2 {
		t.Errorf("Expected error at position 2, got %v", err)
	}
}

func TestTokenKindString(t *testing.T) {
	if TokenNeq.String() != "NEQ" {
		t.Errorf("Expected NEQ, got %s", TokenNeq)
	}
	if TokenKind(99).String() != "TokenKind(99)" {
		t.Errorf("Expected fallback name, got %s", TokenKind(99))
	}
}
