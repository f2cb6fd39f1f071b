// Package validation runs normalized schema rules against a model and reports
// per-field and per-form results.
//
// Every rule configured for a field runs on each pass, in declaration order,
// and every failure is collected. Validity is tri-state: Unknown until a field
// has been validated, then Valid or Invalid. A failing or panicking rule only
// fails itself; other rules and fields are still evaluated.
package validation
