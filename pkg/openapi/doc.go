// Package openapi holds the contracts used to import form schemas from
// OpenAPI documents: where a document comes from (Source), how it is fetched
// (Loader) and how its operations are extracted (Parser). Implementations
// live under internal/openapi so kin-openapi types never leak to callers.
package openapi
