package validation

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// Validation rule values
var (
	// Course and student names
	NameMinLength = 1
	NameMaxLength = 100
)

// Failure reasons returned by StringValidation.Validate
var (
	ErrRequired = errors.New("value is required")
	ErrTooShort = errors.New("value is too short")
	ErrTooLong  = errors.New("value is too long")
	ErrPattern  = errors.New("value has an invalid format")
)

// StringValidation describes the constraints for a single string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new required string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// NewNameValidation applies the shared name length limits
func NewNameValidation(value string) *StringValidation {
	return NewStringValidation(value).WithMinLength(NameMinLength).WithMaxLength(NameMaxLength)
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate returns nil when the value satisfies every constraint.
// Lengths are counted in runes.
func (v *StringValidation) Validate() error {
	if v.Value == "" {
		if v.Required {
			return ErrRequired
		}
		return nil
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return ErrTooShort
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return ErrTooLong
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return ErrPattern
	}

	return nil
}
