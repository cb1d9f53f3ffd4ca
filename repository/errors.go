package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrEditConflict     = errors.New("edit conflict")
	ErrDuplicateRecord  = errors.New("duplicate record")
	ErrDependencyExists = errors.New("dependent records exist")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Postgres error codes the repository translates.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// pqCode returns the SQLSTATE code carried by err, or "" for other errors.
func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// translateWrite maps constraint violations raised by an insert or update.
func translateWrite(err error) error {
	switch pqCode(err) {
	case codeUniqueViolation:
		return ErrDuplicateRecord
	case codeForeignKeyViolation:
		return ErrInvalidReference
	default:
		return err
	}
}

// translateDelete maps constraint violations raised by a delete.
func translateDelete(err error) error {
	if pqCode(err) == codeForeignKeyViolation {
		return ErrDependencyExists
	}
	return err
}
