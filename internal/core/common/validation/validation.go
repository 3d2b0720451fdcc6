package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/frahmantamala/timesheet-management/internal"
)

type rule func(field, value string) *internal.ValidationError

type FieldValidator struct {
	name  string
	value string
	rules []rule
}

// ValidationBuilder collects string field rules and reports every violation at once.
type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name, value string) *FieldValidator {
	fv := &FieldValidator{name: name, value: value}
	v.fields = append(v.fields, fv)
	return fv
}

// Required rejects empty and whitespace-only values.
func (fv *FieldValidator) Required() *FieldValidator {
	fv.rules = append(fv.rules, func(field, value string) *internal.ValidationError {
		if strings.TrimSpace(value) == "" {
			return fieldError(field, fmt.Sprintf("%s is required", field), internal.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// MaxLength counts runes, matching the column sizes of the schema.
func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.rules = append(fv.rules, func(field, value string) *internal.ValidationError {
		if utf8.RuneCountInString(value) > max {
			return fieldError(field, fmt.Sprintf("%s must not exceed %d characters", field, max), internal.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Email accepts an empty value; set values must parse as a bare address.
func (fv *FieldValidator) Email() *FieldValidator {
	fv.rules = append(fv.rules, func(field, value string) *internal.ValidationError {
		if value == "" {
			return nil
		}
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return fieldError(field, fmt.Sprintf("%s is not a valid email address", field), internal.ErrCodeInvalidEmail)
		}
		return nil
	})
	return fv
}

// Validate returns nil or a VALIDATION_ERROR listing every failed rule.
func (v *ValidationBuilder) Validate() error {
	var failures []internal.ValidationError
	for _, fv := range v.fields {
		for _, check := range fv.rules {
			if failure := check(fv.name, fv.value); failure != nil {
				failures = append(failures, *failure)
			}
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: failures})
}

func fieldError(field, message string, code internal.ErrorCode) *internal.ValidationError {
	return &internal.ValidationError{Field: field, Message: message, Code: string(code)}
}
