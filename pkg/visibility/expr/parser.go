package expr

import (
	"fmt"
	"strconv"
)

// node evaluates to a plain Go value; conditions are decided by truthiness of
// the root.
type node interface {
	eval(env env) (any, error)
}

type (
	identNode   struct{ path string }
	literalNode struct{ value any }
	notNode     struct{ inner node }
	logicalNode struct {
		op          kind
		left, right node
	}
	compareNode struct {
		op          kind
		left, right node
	}
)

type parser struct {
	tokens []token
	pos    int
}

func parse(src string) (node, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().kind == kindEOF {
		return nil, fmt.Errorf("visibility/expr: empty expression")
	}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != kindEOF {
		return nil, fmt.Errorf("visibility/expr: unexpected %q at %d", tok.text, tok.pos)
	}
	return root, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) accept(kinds ...kind) (token, bool) {
	tok := p.peek()
	for _, k := range kinds {
		if tok.kind == k {
			p.pos++
			return tok, true
		}
	}
	return token{}, false
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(kindOr); !ok {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = logicalNode{op: kindOr, left: left, right: right}
	}
}

func (p *parser) and() (node, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(kindAnd); !ok {
			return left, nil
		}
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = logicalNode{op: kindAnd, left: left, right: right}
	}
}

func (p *parser) comparison() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	op, ok := p.accept(kindEq, kindNeq, kindLt, kindLte, kindGt, kindGte)
	if !ok {
		return left, nil
	}
	right, err := p.unary()
	if err != nil {
		return nil, err
	}
	return compareNode{op: op.kind, left: left, right: right}, nil
}

func (p *parser) unary() (node, error) {
	if _, ok := p.accept(kindNot); ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	tok := p.peek()
	p.pos++
	switch tok.kind {
	case kindLParen:
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(kindRParen); !ok {
			return nil, fmt.Errorf("visibility/expr: missing ')' for '(' at %d", tok.pos)
		}
		return inner, nil
	case kindIdent:
		return identNode{path: tok.text}, nil
	case kindString:
		return literalNode{value: tok.text}, nil
	case kindNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("visibility/expr: invalid number %q", tok.text)
		}
		return literalNode{value: n}, nil
	case kindTrue:
		return literalNode{value: true}, nil
	case kindFalse:
		return literalNode{value: false}, nil
	case kindNull:
		return literalNode{value: nil}, nil
	case kindEOF:
		p.pos--
		return nil, fmt.Errorf("visibility/expr: unexpected end of expression")
	default:
		return nil, fmt.Errorf("visibility/expr: unexpected %q at %d", tok.text, tok.pos)
	}
}
