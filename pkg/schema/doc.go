// Package schema turns declarative, per-field rule configuration into the
// ordered rule definitions the validation evaluator runs.
//
// A Config lists fields in declaration order; each field lists rule entries in
// declaration order. Entries whose value is falsy (nil, false, 0, "") are
// treated as not configured and dropped. Entries referencing unknown rules or
// custom entries without a test function fail Normalize with an
// *InvalidRuleConfigError before any validation runs.
//
// Configs can be written in Go with Field/Rule/CustomRule or loaded from JSON
// and YAML documents via Parse, LoadFile and LoadFS:
//
//	validateOn: change
//	messages:
//	  required: "Please fill in {{ field }}"
//	fields:
//	  firstname:
//	    required: true
//	  lastname:
//	    minLength: 2
//	    pattern:
//	      value: "^[A-Z]"
//	      message: "Start with a capital letter"
package schema
