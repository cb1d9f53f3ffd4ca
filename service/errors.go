package service

import (
	"errors"
	"strings"

	"github.com/emzola/locallibrary/internal/validator"
	"github.com/emzola/locallibrary/repository"
)

var (
	ErrFailedValidation     = errors.New("failed validation")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrDependencyExists     = errors.New("dependent records exist")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrBadRequest           = errors.New("bad request")
	ErrStorageUnavailable   = errors.New("cover storage is not configured")
)

// ValidationError reports form input that failed validation. Draft holds the
// sanitized input so the form can be shown again.
type ValidationError struct {
	Draft  any
	Errors []validator.FieldError
}

func newValidationError(draft any, v *validator.Validator) *ValidationError {
	return &ValidationError{Draft: draft, Errors: v.List()}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "failed validation: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrFailedValidation
}

// DependencyError reports a delete refused because other records still
// reference Entity.
type DependencyError struct {
	Entity     any
	Dependents any
}

func (e *DependencyError) Error() string {
	return ErrDependencyExists.Error()
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrDependencyExists
}

// repoError maps repository errors onto the service's own.
func repoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, repository.ErrEditConflict):
		return ErrEditConflict
	case errors.Is(err, repository.ErrDependencyExists):
		return ErrDependencyExists
	default:
		return err
	}
}
