// Package rules holds the predicates a form schema is built from. Built-in
// rules (required, minLength, maxLength, pattern, min, max, email, plainText)
// live in a Registry together with any named rules an application registers;
// inline custom rules are plain Custom values. Both resolve to a Definition,
// the uniform shape the validation evaluator runs.
//
// Messages are Message values. Text is a literal that may embed pongo2 markup
// such as `{{ param }}` or `{{ field }}`; MessageFunc derives the message from
// the rule parameter.
package rules
