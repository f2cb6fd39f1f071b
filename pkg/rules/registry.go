package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ParamFunc validates the parameter of a registered rule when a schema is
// normalized, so malformed parameters fail before any value is checked.
type ParamFunc func(param any) error

type registered struct {
	check   CheckFunc
	message Message
	param   ParamFunc
}

// Registry stores named rules. It is shared between forms and therefore safe
// for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]registered
}

// NewRegistry returns a registry seeded with the built-in rules.
func NewRegistry() *Registry {
	r := &Registry{rules: make(map[string]registered)}
	r.registerBuiltins()
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when callers do not supply
// their own.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a named rule. Names are case sensitive and must be unique.
func (r *Registry) Register(name string, check CheckFunc, message Message) error {
	return r.RegisterParam(name, check, message, nil)
}

// RegisterParam adds a named rule whose parameter is checked by param during
// resolution. A nil param accepts any parameter.
func (r *Registry) RegisterParam(name string, check CheckFunc, message Message, param ParamFunc) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rules: rule name is required")
	}
	if check == nil {
		return fmt.Errorf("%w: %s", ErrMissingTest, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, name)
	}
	r.rules[name] = registered{check: check, message: message, param: param}
	return nil
}

// RegisterTest adds a named rule from an infallible predicate, the same shape
// inline custom rules use. Registered names can be referenced from schema
// documents, which cannot carry functions.
func (r *Registry) RegisterTest(name string, test TestFunc, message Message) error {
	if test == nil {
		return fmt.Errorf("%w: %s", ErrMissingTest, name)
	}
	return r.Register(name, adaptTest(test), message)
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, check CheckFunc, message Message) {
	if err := r.Register(name, check, message); err != nil {
		panic(err)
	}
}

// MustRegisterParam panics on registration failure.
func (r *Registry) MustRegisterParam(name string, check CheckFunc, message Message, param ParamFunc) {
	if err := r.RegisterParam(name, check, message, param); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered under name with no parameter.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.rules[name]
	if !ok {
		return Definition{}, false
	}
	return Definition{Name: name, Test: entry.check, Message: entry.message}, true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a Builtin or Custom into a Definition.
func (r *Registry) Resolve(rule Rule) (Definition, error) {
	switch typed := rule.(type) {
	case Builtin:
		r.mu.RLock()
		entry, ok := r.rules[typed.Name]
		r.mu.RUnlock()
		if !ok {
			return Definition{}, fmt.Errorf("%w: %q", ErrUnknownRule, typed.Name)
		}
		if entry.param != nil {
			if err := entry.param(typed.Param); err != nil {
				return Definition{}, err
			}
		}
		return Definition{
			Name:    typed.Name,
			Param:   typed.Param,
			Test:    entry.check,
			Message: entry.message,
		}, nil
	case *Builtin:
		if typed == nil {
			return Definition{}, fmt.Errorf("rules: nil rule")
		}
		return r.Resolve(*typed)
	case Custom:
		if typed.Test == nil {
			return Definition{}, fmt.Errorf("%w: %s", ErrMissingTest, typed.RuleName())
		}
		return Definition{
			Name:    typed.RuleName(),
			Param:   typed.Param,
			Test:    adaptTest(typed.Test),
			Message: typed.Message,
		}, nil
	case *Custom:
		if typed == nil {
			return Definition{}, fmt.Errorf("rules: nil rule")
		}
		return r.Resolve(*typed)
	case nil:
		return Definition{}, fmt.Errorf("rules: nil rule")
	default:
		return Definition{}, fmt.Errorf("rules: unsupported rule type %T", rule)
	}
}

// Evaluate runs the named rule against value.
func (r *Registry) Evaluate(name string, value, param any) (bool, error) {
	def, err := r.Resolve(Builtin{Name: name, Param: param})
	if err != nil {
		return false, err
	}
	return def.Check(value)
}

// Evaluate runs a rule from the default registry.
func Evaluate(name string, value, param any) (bool, error) {
	return defaultRegistry.Evaluate(name, value, param)
}
