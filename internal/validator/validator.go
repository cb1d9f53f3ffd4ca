// Package validator accumulates field-level validation errors in the order
// they were found, and sanitizes raw form input against declared rules.
package validator

import (
	"github.com/gabriel-vasile/mimetype"
)

// FieldError is a single failed check for a named form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string
	fields []string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message. The first
// failure for a field is the one that is kept.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.fields = append(v.fields, key)
	}
}

// Check adds an error for key with message only when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Has reports whether key already failed a check.
func (v *Validator) Has(key string) bool {
	_, exists := v.Errors[key]
	return exists
}

// List returns the recorded errors in the order they were added.
func (v *Validator) List() []FieldError {
	list := make([]FieldError, 0, len(v.fields))
	for _, field := range v.fields {
		list = append(list, FieldError{Field: field, Message: v.Errors[field]})
	}
	return list
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// Unique returns true if every string in values is distinct.
func Unique(values []string) bool {
	seen := make(map[string]bool)
	for _, value := range values {
		if seen[value] {
			return false
		}
		seen[value] = true
	}
	return true
}

// Mime reports whether a detected MIME type is one of the permitted types.
func Mime(mtype *mimetype.MIME, permittedTypes ...string) bool {
	for i := range permittedTypes {
		if mtype.Is(permittedTypes[i]) {
			return true
		}
	}
	return false
}
