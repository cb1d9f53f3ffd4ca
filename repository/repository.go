package repository

import (
	"context"
	"database/sql"
	"time"
)

// Repository is the catalog's entity store.
type Repository interface {
	genres
	authors
	books
	bookInstances
}

// queryTimeout bounds every statement the Postgres repository issues.
const queryTimeout = 3 * time.Second

// repository defines the app's Postgres repository layer.
type repository struct {
	db *sql.DB
}

// New creates a new instance of Repository.
func New(db *sql.DB) *repository {
	return &repository{db: db}
}

// withinTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
func (r *repository) withinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// nullTime converts an optional date into a value database/sql can bind.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// timePtr converts a scanned nullable date back into an optional date.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
