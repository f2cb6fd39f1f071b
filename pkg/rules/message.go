package rules

import (
	"math"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// DefaultMessage is used when neither the rule nor the schema supplies one.
const DefaultMessage = "This field is invalid"

// MessageContext is the data available when a failure message is rendered.
type MessageContext struct {
	Field string
	Rule  string
	Param any
	Value any
}

// Message renders the text shown for a failed rule.
type Message interface {
	Render(ctx MessageContext) string
}

// Text is a literal message. Text containing pongo2 markup is rendered as a
// template with `field`, `rule`, `param` and `value` in scope; templates that
// fail to compile or execute fall back to the raw text.
type Text string

// Render implements Message.
func (t Text) Render(ctx MessageContext) string {
	raw := string(t)
	if !isTemplate(raw) {
		return raw
	}
	tpl, err := compileTemplate(raw)
	if err != nil {
		return raw
	}
	out, err := tpl.Execute(pongo2.Context{
		"field": ctx.Field,
		"rule":  ctx.Rule,
		"param": displayValue(ctx.Param),
		"value": displayValue(ctx.Value),
	})
	if err != nil {
		return raw
	}
	return out
}

// MessageFunc derives a message from the rule parameter.
type MessageFunc func(param any) string

// Render implements Message.
func (fn MessageFunc) Render(ctx MessageContext) string {
	if fn == nil {
		return ""
	}
	return fn(ctx.Param)
}

// MessageOf converts the loose message forms accepted in configuration
// (string, func(any) string, Message) into a Message. It returns nil for
// anything else.
func MessageOf(v any) Message {
	switch typed := v.(type) {
	case nil:
		return nil
	case Message:
		return typed
	case string:
		if typed == "" {
			return nil
		}
		return Text(typed)
	case func(any) string:
		return MessageFunc(typed)
	default:
		return nil
	}
}

// displayValue keeps integral floats (the shape JSON and YAML numbers often
// arrive in) from rendering with a fractional part.
func displayValue(v any) any {
	switch f := v.(type) {
	case float64:
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return int64(f)
		}
	case float32:
		if float64(f) == math.Trunc(float64(f)) {
			return int64(f)
		}
	}
	return v
}

func isTemplate(raw string) bool {
	return strings.Contains(raw, "{{") || strings.Contains(raw, "{%")
}

var templateCache = struct {
	mu    sync.RWMutex
	items map[string]*pongo2.Template
}{items: make(map[string]*pongo2.Template)}

func compileTemplate(raw string) (*pongo2.Template, error) {
	templateCache.mu.RLock()
	tpl, ok := templateCache.items[raw]
	templateCache.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := pongo2.FromString(raw)
	if err != nil {
		return nil, err
	}

	templateCache.mu.Lock()
	templateCache.items[raw] = tpl
	templateCache.mu.Unlock()
	return tpl, nil
}
