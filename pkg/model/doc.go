// Package model holds the mutable state of one form: the current value and
// touched flag of every named field, plus the snapshot remembered by
// SetInitialModel so Reset can restore it.
//
// Declared fields always appear in the model, in declaration order. Extra
// keys supplied through SetInitialModel or SetModel follow in sorted order.
// Values are deep-copied on the way in and on the way out, so callers can
// never mutate the store behind its back. A Store is not safe for concurrent
// use; it is owned by a single form.
package model
