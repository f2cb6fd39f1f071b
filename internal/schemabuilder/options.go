package schemabuilder

import "github.com/goliatone/go-formstate/pkg/rules"

// Options configures the Builder.
type Options struct {
	// Formats maps OpenAPI string formats onto rule names. A matching format
	// adds the rule with parameter true.
	Formats map[string]string
}

func defaultOptions() Options {
	return Options{
		Formats: map[string]string{
			"email": rules.RuleEmail,
		},
	}
}
