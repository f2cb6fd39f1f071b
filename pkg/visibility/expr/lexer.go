package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type kind int

const (
	kindEOF kind = iota
	kindIdent
	kindString
	kindNumber
	kindTrue
	kindFalse
	kindNull
	kindEq
	kindNeq
	kindLt
	kindLte
	kindGt
	kindGte
	kindAnd
	kindOr
	kindNot
	kindLParen
	kindRParen
)

type token struct {
	kind kind
	text string
	pos  int
}

var operators = []struct {
	text string
	kind kind
}{
	{"==", kindEq},
	{"!=", kindNeq},
	{"<=", kindLte},
	{">=", kindGte},
	{"&&", kindAnd},
	{"||", kindOr},
	{"<", kindLt},
	{">", kindGt},
	{"!", kindNot},
	{"(", kindLParen},
	{")", kindRParen},
}

type lexer struct {
	src string
	pos int
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == kindEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: kindEOF, pos: l.pos}, nil
	}

	start := l.pos
	rest := l.src[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			l.pos += len(op.text)
			return token{kind: op.kind, text: op.text, pos: start}, nil
		}
	}

	switch ch := l.src[l.pos]; {
	case ch == '"' || ch == '\'':
		return l.quoted(ch)
	case ch == '=' || ch == '&' || ch == '|':
		return token{}, fmt.Errorf("visibility/expr: unexpected %q at %d", ch, start)
	}

	for l.pos < len(l.src) && isWordByte(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		return token{}, fmt.Errorf("visibility/expr: unexpected %q at %d", l.src[start], start)
	}

	word := l.src[start:l.pos]
	switch strings.ToLower(word) {
	case "true":
		return token{kind: kindTrue, text: word, pos: start}, nil
	case "false":
		return token{kind: kindFalse, text: word, pos: start}, nil
	case "null", "nil":
		return token{kind: kindNull, text: word, pos: start}, nil
	}
	if startsNumber(word) {
		if _, err := strconv.ParseFloat(word, 64); err != nil {
			return token{}, fmt.Errorf("visibility/expr: invalid number %q at %d", word, start)
		}
		return token{kind: kindNumber, text: word, pos: start}, nil
	}
	return token{kind: kindIdent, text: word, pos: start}, nil
}

func (l *lexer) quoted(quote byte) (token, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		l.pos++
		switch {
		case ch == '\\' && l.pos < len(l.src):
			b.WriteByte(unescape(l.src[l.pos]))
			l.pos++
		case ch == quote:
			return token{kind: kindString, text: b.String(), pos: start}, nil
		default:
			b.WriteByte(ch)
		}
	}
	return token{}, fmt.Errorf("visibility/expr: unterminated string at %d", start)
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return ch
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isWordByte(ch byte) bool {
	return ch == '.' || ch == '_' || ch == '-' || ch == '+' || ch >= 0x80 ||
		unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))
}

func startsNumber(word string) bool {
	ch := word[0]
	return (ch >= '0' && ch <= '9') || ((ch == '-' || ch == '+') && len(word) > 1)
}
