package form

import (
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// State is the derived state published after every operation.
type State struct {
	Schema           validation.FormResult       `json:"schema"`
	Model            map[string]model.FieldValue `json:"model"`
	IsTouched        bool                        `json:"isTouched"`
	IsButtonDisabled bool                        `json:"isButtonDisabled"`
}

// Listener receives every published State.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// State returns the current derived state.
func (f *Form) State() State {
	result := f.Schema()
	return State{
		Schema:           result,
		Model:            f.store.Fields(),
		IsTouched:        f.store.IsTouched(),
		IsButtonDisabled: result.IsValid != validation.Valid,
	}
}

// Subscribe registers fn for every future publication. The returned function
// removes it; calling it more than once is harmless.
func (f *Form) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	f.nextID++
	id := f.nextID
	f.listeners = append(f.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range f.listeners {
			if sub.id == id {
				f.listeners = append(f.listeners[:i:i], f.listeners[i+1:]...)
				return
			}
		}
	}
}

func (f *Form) publish() {
	if len(f.listeners) == 0 {
		return
	}
	state := f.State()
	for _, sub := range append([]subscription(nil), f.listeners...) {
		sub.fn(state)
	}
}
