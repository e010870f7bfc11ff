package query

import "fmt"

// Binding strength of the binary operators; AND binds tighter than OR
var precedence = map[TokenKind]int{
	TokenOr:  1,
	TokenAnd: 2,
}

// Parse tokenizes and parses a query, requiring that every token is consumed
func Parse(query string) (Expr, error) {
	tokens, err := Tokenize(query)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses a complete token stream into an expression tree
func ParseTokens(tokens []Token) (Expr, error) {
	p := &parser{tokens: tokens}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, unexpected(tok, "unexpected trailing tokens")
	}
	return expr, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// parseExpr parses an atom followed by any binary operators binding at
// least as tightly as minPrec. Operators of equal precedence associate to
// the left.
func (p *parser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok {
			return left, nil
		}
		prec, isBinary := precedence[tok.Kind]
		if !isBinary || prec < minPrec {
			return left, nil
		}
		p.pos++

		if _, ok := p.peek(); !ok {
			return nil, endOfInput(fmt.Sprintf("operator '%s' must be followed by a field expression, but input ended", tok.Value))
		}

		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}

		if tok.Kind == TokenAnd {
			left = &And{Left: left, Right: right}
		} else {
			left = &Or{Left: left, Right: right}
		}
	}
}

func (p *parser) parseAtom() (Expr, error) {
	tok, ok := p.next()
	if !ok {
		return nil, endOfInput("unexpected end of input")
	}

	switch tok.Kind {
	case TokenLParen:
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		closing, ok := p.next()
		if !ok {
			return nil, endOfInput("unclosed parenthesis, expected ')' before end of input")
		}
		if closing.Kind != TokenRParen {
			return nil, unexpected(closing, "expected ')'")
		}
		return expr, nil

	case TokenIdent:
		return p.parseMatch(tok)

	default:
		return nil, unexpected(tok, fmt.Sprintf("unexpected token %s, expected field or '('", tok))
	}
}

func (p *parser) parseMatch(field Token) (Expr, error) {
	op, ok := p.next()
	if !ok {
		return nil, endOfInput(fmt.Sprintf("expected '=' or '!=' after field '%s'", field.Value))
	}
	if op.Kind != TokenEq && op.Kind != TokenNeq {
		return nil, unexpected(op, fmt.Sprintf("expected '=' or '!=' after field '%s', got %s", field.Value, op))
	}

	pattern := ""
	if tok, ok := p.peek(); ok && tok.Kind == TokenLiteral {
		pattern = tok.Value
		p.pos++
	}

	return &Match{Field: field.Value, Op: op.Value, Pattern: pattern}, nil
}
