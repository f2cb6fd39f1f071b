package expr

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Evaluator is a dependency-free visibility evaluator.
//
// Conditions combine identifiers and literals with `==`, `!=`, `<`, `<=`,
// `>`, `>=`, `&&`, `||`, `!` and parentheses. A bare identifier is tested
// for truthiness. Identifiers resolve against Context.Values (dotted paths
// walk nested maps) or, with the `extras.` prefix, against Context.Extras.
// Compiled conditions are cached per rule string.
type Evaluator struct {
	cache sync.Map
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// New returns an Evaluator with an empty compile cache.
func New() *Evaluator { return &Evaluator{} }

// Eval reports whether rule holds. An empty rule is always true.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return true, nil
	}
	root, err := e.compile(rule)
	if err != nil {
		return false, err
	}
	value, err := root.eval(env(ctx))
	if err != nil {
		return false, err
	}
	return truthy(value), nil
}

// Compile reports syntax errors without evaluating the rule.
func (e *Evaluator) Compile(rule string) error {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil
	}
	_, err := e.compile(rule)
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	if cached, ok := e.cache.Load(rule); ok {
		return cached.(node), nil
	}
	root, err := parse(rule)
	if err != nil {
		return nil, err
	}
	e.cache.Store(rule, root)
	return root, nil
}

type env visibility.Context

func (e env) lookup(path string) any {
	if rest, ok := cutPrefixFold(path, "extras."); ok {
		return walk(e.Extras, rest)
	}
	return walk(e.Values, path)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

func walk(values map[string]any, path string) any {
	if len(values) == 0 || path == "" {
		return nil
	}
	if v, ok := values[path]; ok {
		return v
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			current = typed[part]
		case map[string]string:
			v, ok := typed[part]
			if !ok {
				return nil
			}
			current = v
		default:
			return nil
		}
	}
	return current
}

func (n identNode) eval(e env) (any, error) { return e.lookup(n.path), nil }

func (n literalNode) eval(env) (any, error) { return n.value, nil }

func (n notNode) eval(e env) (any, error) {
	v, err := n.inner.eval(e)
	if err != nil {
		return nil, err
	}
	return !truthy(v), nil
}

func (n logicalNode) eval(e env) (any, error) {
	left, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	switch {
	case n.op == kindAnd && !truthy(left):
		return false, nil
	case n.op == kindOr && truthy(left):
		return true, nil
	}
	right, err := n.right.eval(e)
	if err != nil {
		return nil, err
	}
	return truthy(right), nil
}

func (n compareNode) eval(e env) (any, error) {
	left, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(e)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case kindEq:
		return equal(left, right), nil
	case kindNeq:
		return !equal(left, right), nil
	}

	a, aok := number(left)
	b, bok := number(right)
	if aok && bok {
		return order(n.op, compareFloat(a, b)), nil
	}
	if left == nil || right == nil {
		return false, nil
	}
	return order(n.op, strings.Compare(text(left), text(right))), nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func order(op kind, cmp int) bool {
	switch op {
	case kindLt:
		return cmp < 0
	case kindLte:
		return cmp <= 0
	case kindGt:
		return cmp > 0
	case kindGte:
		return cmp >= 0
	default:
		return false
	}
}

// equal coerces the left side to the type of the right side, so
// `enabled == true` matches the string "true" submitted by a form.
func equal(left, right any) bool {
	if right == nil {
		return left == nil
	}
	switch want := right.(type) {
	case bool:
		got, ok := boolean(left)
		return ok && got == want
	case float64:
		got, ok := number(left)
		return ok && got == want
	default:
		if a, ok := number(left); ok {
			if b, ok := number(right); ok {
				return a == b
			}
		}
		return text(left) == text(right)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := number(value); ok {
		return n != 0
	}
	return true
}

func boolean(value any) (bool, bool) {
	if s, ok := value.(string); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return truthy(value), true
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
