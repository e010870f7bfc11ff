package query

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a token
type TokenKind int

const (
	TokenIdent TokenKind = iota
	TokenEq
	TokenNeq
	TokenLiteral
	TokenAnd
	TokenOr
	TokenLParen
	TokenRParen
)

var tokenKindNames = map[TokenKind]string{
	TokenIdent:   "IDENT",
	TokenEq:      "EQ",
	TokenNeq:     "NEQ",
	TokenLiteral: "LITERAL",
	TokenAnd:     "AND",
	TokenOr:      "OR",
	TokenLParen:  "LPAREN",
	TokenRParen:  "RPAREN",
}

// String returns the token kind's name
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical unit of a query. Pos is the byte offset of the token in
// the query text.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   int
}

// String renders the token for error messages
func (t Token) String() string {
	return fmt.Sprintf("'%s' (%s)", t.Value, t.Kind)
}

// Tokenize splits a query into tokens.
//
// A field name followed by '=' or '!=' switches the lexer into raw capture:
// everything up to the next top-level '&', '||' or unmatched ')' becomes a
// single trimmed LITERAL, so a pattern may contain operator characters as
// long as they sit inside their own parentheses.
func Tokenize(query string) ([]Token, error) {
	var tokens []Token
	pos := 0

	for pos < len(query) {
		r, size := utf8.DecodeRuneInString(query[pos:])

		switch {
		case unicode.IsSpace(r):
			pos += size

		case strings.HasPrefix(query[pos:], "||"):
			tokens = append(tokens, Token{Kind: TokenOr, Value: "||", Pos: pos})
			pos += 2

		case r == '&':
			value := "&"
			if strings.HasPrefix(query[pos:], "&&") {
				value = "&&"
			}
			tokens = append(tokens, Token{Kind: TokenAnd, Value: value, Pos: pos})
			pos += len(value)

		case strings.HasPrefix(query[pos:], "!="):
			tokens = append(tokens, Token{Kind: TokenNeq, Value: "!=", Pos: pos})
			pos += 2

		case r == '=':
			tokens = append(tokens, Token{Kind: TokenEq, Value: "=", Pos: pos})
			pos++

		case r == '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Value: "(", Pos: pos})
			pos++

		case r == ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Value: ")", Pos: pos})
			pos++

		case isIdentStart(r):
			end := scanIdent(query, pos)
			ident := Token{Kind: TokenIdent, Value: query[pos:end], Pos: pos}

			opPos := skipSpace(query, end)
			op, ok := operatorAt(query, opPos)
			if !ok {
				tokens = append(tokens, ident)
				pos = end
				continue
			}

			rhsStart := opPos + len(op.Value)
			rhsEnd := scanRaw(query, rhsStart)
			tokens = append(tokens,
				ident,
				op,
				Token{Kind: TokenLiteral, Value: strings.TrimSpace(query[rhsStart:rhsEnd]), Pos: skipSpace(query, rhsStart)},
			)
			pos = rhsEnd

		case r == '|':
			return nil, &SyntaxError{
				Pos:    pos,
				Token:  query[pos:],
				Reason: "unexpected character, verify your syntax",
			}

		default:
			end := scanLiteral(query, pos)
			tokens = append(tokens, Token{Kind: TokenLiteral, Value: strings.TrimSpace(query[pos:end]), Pos: pos})
			pos = end
		}
	}

	return tokens, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func scanIdent(query string, pos int) int {
	for pos < len(query) {
		r, size := utf8.DecodeRuneInString(query[pos:])
		if !isIdentPart(r) {
			break
		}
		pos += size
	}
	return pos
}

func skipSpace(query string, pos int) int {
	for pos < len(query) {
		r, size := utf8.DecodeRuneInString(query[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

func operatorAt(query string, pos int) (Token, bool) {
	switch {
	case strings.HasPrefix(query[pos:], "!="):
		return Token{Kind: TokenNeq, Value: "!=", Pos: pos}, true
	case strings.HasPrefix(query[pos:], "="):
		return Token{Kind: TokenEq, Value: "=", Pos: pos}, true
	default:
		return Token{}, false
	}
}

// scanRaw returns the end of a raw right-hand side starting at pos
func scanRaw(query string, pos int) int {
	depth := 0
	for pos < len(query) {
		switch c := query[pos]; {
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return pos
			}
			depth--
		case depth == 0 && c == '&':
			return pos
		case depth == 0 && strings.HasPrefix(query[pos:], "||"):
			return pos
		}
		pos++
	}
	return pos
}

// scanLiteral returns the end of a run of characters that are not operators
// or parentheses
func scanLiteral(query string, pos int) int {
	end := strings.IndexAny(query[pos:], "&|()")
	if end < 0 {
		return len(query)
	}
	return pos + end
}
