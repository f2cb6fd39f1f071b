package rules

import (
	"fmt"
	"html"
	"net/mail"
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Built-in rule names.
const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleEmail     = "email"
	RulePlainText = "plainText"
)

func (r *Registry) registerBuiltins() {
	r.MustRegister(RuleRequired, checkRequired, Text("This field is required"))
	r.MustRegisterParam(RuleMinLength, checkMinLength, Text("Must be at least {{ param }} characters long"), checkLengthParam)
	r.MustRegisterParam(RuleMaxLength, checkMaxLength, Text("Must be at most {{ param }} characters long"), checkLengthParam)
	r.MustRegisterParam(RulePattern, checkPattern, Text("Does not match the expected format"), checkPatternParam)
	r.MustRegisterParam(RuleMin, checkMin, Text("Must be at least {{ param }}"), checkNumberParam)
	r.MustRegisterParam(RuleMax, checkMax, Text("Must be at most {{ param }}"), checkNumberParam)
	r.MustRegister(RuleEmail, checkEmail, Text("Must be a valid email address"))
	r.MustRegister(RulePlainText, checkPlainText, Text("Must not contain markup"))
}

func checkRequired(value, _ any) (bool, error) {
	return !IsEmpty(value), nil
}

func checkMinLength(value, param any) (bool, error) {
	limit, err := intParam(param)
	if err != nil {
		return false, err
	}
	n, err := Length(value)
	if err != nil {
		return false, err
	}
	return n >= limit, nil
}

func checkMaxLength(value, param any) (bool, error) {
	limit, err := intParam(param)
	if err != nil {
		return false, err
	}
	n, err := Length(value)
	if err != nil {
		return false, err
	}
	return n <= limit, nil
}

// Range and format rules leave empty values to `required`.

func checkPattern(value, param any) (bool, error) {
	if IsEmpty(value) {
		return true, nil
	}
	re, err := patternParam(param)
	if err != nil {
		return false, err
	}
	s, err := stringValue(value)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

func checkMin(value, param any) (bool, error) {
	if IsEmpty(value) {
		return true, nil
	}
	limit, err := floatParam(param)
	if err != nil {
		return false, err
	}
	n, err := numericValue(value)
	if err != nil {
		return false, err
	}
	return n >= limit, nil
}

func checkMax(value, param any) (bool, error) {
	if IsEmpty(value) {
		return true, nil
	}
	limit, err := floatParam(param)
	if err != nil {
		return false, err
	}
	n, err := numericValue(value)
	if err != nil {
		return false, err
	}
	return n <= limit, nil
}

func checkEmail(value, _ any) (bool, error) {
	if IsEmpty(value) {
		return true, nil
	}
	s, err := stringValue(value)
	if err != nil {
		return false, err
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false, nil
	}
	return addr.Address == s, nil
}

func checkPlainText(value, _ any) (bool, error) {
	if IsEmpty(value) {
		return true, nil
	}
	s, err := stringValue(value)
	if err != nil {
		return false, err
	}
	cleaned := html.UnescapeString(plainTextPolicy().Sanitize(s))
	return cleaned == s, nil
}

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

func plainTextPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func checkLengthParam(param any) error {
	n, err := intParam(param)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: length must not be negative, got %d", ErrInvalidParam, n)
	}
	return nil
}

func checkPatternParam(param any) error {
	_, err := patternParam(param)
	return err
}

func checkNumberParam(param any) error {
	_, err := floatParam(param)
	return err
}

var patternCache sync.Map

func patternParam(param any) (*regexp.Regexp, error) {
	switch p := param.(type) {
	case *regexp.Regexp:
		if p == nil {
			return nil, fmt.Errorf("%w: nil pattern", ErrInvalidParam)
		}
		return p, nil
	case string:
		if cached, ok := patternCache.Load(p); ok {
			return cached.(*regexp.Regexp), nil
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParam, err)
		}
		patternCache.Store(p, re)
		return re, nil
	default:
		return nil, fmt.Errorf("%w: pattern must be a string or *regexp.Regexp, got %T", ErrInvalidParam, param)
	}
}
