package model

import (
	"sort"
	"strings"
)

// Empty is the value assigned to fields that have not been given one.
const Empty = ""

// FieldValue is the state of one field.
type FieldValue struct {
	Value     any  `json:"value"`
	IsTouched bool `json:"isTouched"`
}

// Store tracks field values, touched flags and the resettable snapshot.
type Store struct {
	declared    []string
	declaredSet map[string]struct{}

	order       []string
	fields      map[string]FieldValue
	snapshot    map[string]any
	initialized bool
}

// NewStore declares the fields every model of this form carries. Blank and
// duplicate names are ignored.
func NewStore(fields ...string) *Store {
	s := &Store{
		declaredSet: make(map[string]struct{}, len(fields)),
		fields:      make(map[string]FieldValue),
	}
	for _, name := range fields {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := s.declaredSet[name]; dup {
			continue
		}
		s.declaredSet[name] = struct{}{}
		s.declared = append(s.declared, name)
	}
	return s
}

// SetInitialModel seeds every declared field from values, defaulting missing
// ones to Empty, and clears all touched flags. Keys that are not declared are
// kept as extra fields. The input becomes the snapshot restored by Reset and
// replaces any previous snapshot.
func (s *Store) SetInitialModel(values map[string]any) {
	s.snapshot = cloneValues(values)
	s.initialized = true
	s.load(s.snapshot)
}

// Reset restores the snapshot, clears touched flags and drops extra fields
// the snapshot does not mention. Before SetInitialModel it resets every
// declared field to Empty.
func (s *Store) Reset() {
	s.load(s.snapshot)
}

func (s *Store) load(values map[string]any) {
	s.order = s.order[:0]
	s.fields = make(map[string]FieldValue, len(s.declared)+len(values))

	for _, name := range s.declared {
		value, ok := values[name]
		if !ok {
			value = Empty
		}
		s.order = append(s.order, name)
		s.fields[name] = FieldValue{Value: deepCopy(value)}
	}
	for _, name := range sortedExtras(values, s.declaredSet) {
		s.order = append(s.order, name)
		s.fields[name] = FieldValue{Value: deepCopy(values[name])}
	}
}

// SetProperty assigns value to name and marks the field touched. Declared
// fields are created on write; any other name must already be in the model.
func (s *Store) SetProperty(name string, value any) error {
	if _, ok := s.fields[name]; !ok {
		if !s.IsDeclared(name) {
			return &UnknownFieldError{Field: name}
		}
		s.materialize()
	}
	s.fields[name] = FieldValue{Value: deepCopy(value), IsTouched: true}
	return nil
}

// SetModel merges values into the model and marks every supplied field
// touched. Unknown keys are added as extra fields. The snapshot is untouched.
func (s *Store) SetModel(values map[string]any) {
	if len(values) == 0 {
		return
	}
	s.materialize()
	for _, name := range sortedKeys(values) {
		if _, ok := s.fields[name]; !ok {
			s.order = append(s.order, name)
		}
		s.fields[name] = FieldValue{Value: deepCopy(values[name]), IsTouched: true}
	}
}

// Clear sets every field to Empty and clears touched flags.
func (s *Store) Clear() {
	s.materialize()
	for _, name := range s.order {
		s.fields[name] = FieldValue{Value: Empty}
	}
}

// SetTouched marks every field touched without changing values.
func (s *Store) SetTouched() {
	s.setTouched(true)
}

// SetUntouched clears every touched flag without changing values.
func (s *Store) SetUntouched() {
	s.setTouched(false)
}

func (s *Store) setTouched(touched bool) {
	s.materialize()
	for _, name := range s.order {
		field := s.fields[name]
		field.IsTouched = touched
		s.fields[name] = field
	}
}

// materialize creates the declared fields the first time the model is
// written to without a prior SetInitialModel.
func (s *Store) materialize() {
	for _, name := range s.declared {
		if _, ok := s.fields[name]; ok {
			continue
		}
		s.order = append(s.order, name)
		s.fields[name] = FieldValue{Value: Empty}
	}
}

// Get returns a copy of the field state.
func (s *Store) Get(name string) (FieldValue, bool) {
	if s == nil {
		return FieldValue{}, false
	}
	field, ok := s.fields[name]
	if !ok {
		return FieldValue{}, false
	}
	field.Value = deepCopy(field.Value)
	return field, true
}

// Value returns the current value of name, or nil when it is not present.
func (s *Store) Value(name string) any {
	field, _ := s.Get(name)
	return field.Value
}

// Values returns a copy of every field value. It is empty, never nil, before
// the model has been written to.
func (s *Store) Values() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(s.fields))
	for name, field := range s.fields {
		out[name] = deepCopy(field.Value)
	}
	return out
}

// Fields returns a copy of every field state.
func (s *Store) Fields() map[string]FieldValue {
	if s == nil {
		return map[string]FieldValue{}
	}
	out := make(map[string]FieldValue, len(s.fields))
	for name, field := range s.fields {
		field.Value = deepCopy(field.Value)
		out[name] = field
	}
	return out
}

// Names lists the fields currently in the model, declared fields first.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Declared lists the declared field names.
func (s *Store) Declared() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.declared...)
}

// IsDeclared reports whether name was passed to NewStore.
func (s *Store) IsDeclared(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.declaredSet[name]
	return ok
}

// IsTouched reports whether any field is touched.
func (s *Store) IsTouched() bool {
	if s == nil {
		return false
	}
	for _, field := range s.fields {
		if field.IsTouched {
			return true
		}
	}
	return false
}

// Initialized reports whether SetInitialModel has been called.
func (s *Store) Initialized() bool {
	return s != nil && s.initialized
}

// Snapshot returns a copy of the values remembered by SetInitialModel.
func (s *Store) Snapshot() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return cloneValues(s.snapshot)
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedExtras(values map[string]any, declared map[string]struct{}) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, ok := declared[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
