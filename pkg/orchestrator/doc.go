// Package orchestrator wires the loader → parser → schema builder → form
// pipeline, so an OpenAPI operation can back a form with a single call.
package orchestrator
