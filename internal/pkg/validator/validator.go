package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validator accumulates field-level rule failures against one decoded
// request body. Rules chain; the first failing rule for a field wins and
// later rules on that field are skipped. Every rule except Required
// passes silently when the field is absent.
type Validator struct {
	data   map[string]interface{}
	errors map[string]string
}

// New creates a validator over a decoded JSON body
func New(data map[string]interface{}) *Validator {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Validator{
		data:   data,
		errors: map[string]string{},
	}
}

// value returns the field value and whether it is present (key exists and
// is not JSON null).
func (v *Validator) value(field string) (interface{}, bool) {
	val, ok := v.data[field]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

func (v *Validator) failed(field string) bool {
	_, ok := v.errors[field]
	return ok
}

func (v *Validator) addError(field, message string) {
	if !v.failed(field) {
		v.errors[field] = message
	}
}

// asString returns the value as a string when it is one
func asString(val interface{}) (string, bool) {
	s, ok := val.(string)
	return s, ok
}

// asNumber coerces JSON numbers and numeric strings
func asNumber(val interface{}) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Required flags missing keys, JSON null and empty strings identically
func (v *Validator) Required(field string) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		v.addError(field, fmt.Sprintf("%s is required", field))
		return v
	}
	if s, ok := asString(val); ok && strings.TrimSpace(s) == "" {
		v.addError(field, fmt.Sprintf("%s is required", field))
	}
	return v
}

// Email checks for an RFC-shaped address, not an exhaustive parse
func (v *Validator) Email(field string) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	s, ok := asString(val)
	if !ok || !emailPattern.MatchString(s) {
		v.addError(field, fmt.Sprintf("%s must be a valid email address", field))
	}
	return v
}

// MinLength checks minimum string length in runes
func (v *Validator) MinLength(field string, min int) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	s, ok := asString(val)
	if !ok || utf8.RuneCountInString(s) < min {
		v.addError(field, fmt.Sprintf("%s must be at least %d characters", field, min))
	}
	return v
}

// MaxLength checks maximum string length in runes
func (v *Validator) MaxLength(field string, max int) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	s, ok := asString(val)
	if !ok || utf8.RuneCountInString(s) > max {
		v.addError(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return v
}

// Numeric accepts JSON numbers and numeric strings
func (v *Validator) Numeric(field string) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	if _, ok := asNumber(val); !ok {
		v.addError(field, fmt.Sprintf("%s must be numeric", field))
	}
	return v
}

// Integer accepts whole numbers only
func (v *Validator) Integer(field string) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	n, ok := asNumber(val)
	if !ok || n != math.Trunc(n) {
		v.addError(field, fmt.Sprintf("%s must be an integer", field))
	}
	return v
}

// In checks case-sensitive membership in a fixed set
func (v *Validator) In(field string, allowed ...string) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	s, ok := asString(val)
	if ok {
		for _, a := range allowed {
			if s == a {
				return v
			}
		}
	}
	v.addError(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	return v
}

// Min checks a numeric lower bound
func (v *Validator) Min(field string, min float64) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	n, ok := asNumber(val)
	if !ok || n < min {
		v.addError(field, fmt.Sprintf("%s must be at least %v", field, min))
	}
	return v
}

// Max checks a numeric upper bound
func (v *Validator) Max(field string, max float64) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	n, ok := asNumber(val)
	if !ok || n > max {
		v.addError(field, fmt.Sprintf("%s must be at most %v", field, max))
	}
	return v
}

// Date checks a format-constrained parse, e.g. "2006-01-02"
func (v *Validator) Date(field, layout string) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	s, ok := asString(val)
	if !ok {
		v.addError(field, fmt.Sprintf("%s must be a valid date", field))
		return v
	}
	if _, err := time.Parse(layout, s); err != nil {
		v.addError(field, fmt.Sprintf("%s must be a valid date (%s)", field, layout))
	}
	return v
}

// Custom runs a predicate against the raw value
func (v *Validator) Custom(field string, fn func(interface{}) bool, message string) *Validator {
	if v.failed(field) {
		return v
	}
	val, present := v.value(field)
	if !present {
		return v
	}
	if !fn(val) {
		v.addError(field, message)
	}
	return v
}

// Passes reports whether no rule failed
func (v *Validator) Passes() bool {
	return len(v.errors) == 0
}

// Fails reports whether any rule failed
func (v *Validator) Fails() bool {
	return !v.Passes()
}

// Errors returns the field->message map; empty map means validation passed
func (v *Validator) Errors() map[string]string {
	return v.errors
}
