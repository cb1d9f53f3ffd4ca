package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emzola/locallibrary/data"
)

type authors interface {
	GetAuthor(ctx context.Context, id int64) (*data.Author, error)
	GetAllAuthors(ctx context.Context) ([]*data.Author, error)
	CreateAuthor(ctx context.Context, author *data.Author) error
	UpdateAuthor(ctx context.Context, author *data.Author) error
	DeleteAuthor(ctx context.Context, id int64) error
	CountAuthors(ctx context.Context) (int, error)
}

// GetAuthor retrieves an author record by its ID.
func (r *repository) GetAuthor(ctx context.Context, id int64) (*data.Author, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, first_name, family_name, date_of_birth, date_of_death, version
		FROM authors
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var (
		author       data.Author
		birth, death sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&author.ID,
		&author.FirstName,
		&author.FamilyName,
		&birth,
		&death,
		&author.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	author.DateOfBirth = timePtr(birth)
	author.DateOfDeath = timePtr(death)
	return &author, nil
}

// GetAllAuthors retrieves every author ordered by family name.
func (r *repository) GetAllAuthors(ctx context.Context) ([]*data.Author, error) {
	query := `
		SELECT id, first_name, family_name, date_of_birth, date_of_death, version
		FROM authors
		ORDER BY family_name ASC, first_name ASC, id ASC`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	authors := []*data.Author{}
	for rows.Next() {
		var (
			author       data.Author
			birth, death sql.NullTime
		)
		err := rows.Scan(
			&author.ID,
			&author.FirstName,
			&author.FamilyName,
			&birth,
			&death,
			&author.Version,
		)
		if err != nil {
			return nil, err
		}
		author.DateOfBirth = timePtr(birth)
		author.DateOfDeath = timePtr(death)
		authors = append(authors, &author)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return authors, nil
}

// CreateAuthor creates a new author record.
func (r *repository) CreateAuthor(ctx context.Context, author *data.Author) error {
	query := `
		INSERT INTO authors (first_name, family_name, date_of_birth, date_of_death)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version`
	args := []any{author.FirstName, author.FamilyName, nullTime(author.DateOfBirth), nullTime(author.DateOfDeath)}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&author.ID, &author.Version)
	if err != nil {
		return translateWrite(err)
	}
	return nil
}

// UpdateAuthor updates an author record.
func (r *repository) UpdateAuthor(ctx context.Context, author *data.Author) error {
	query := `
		UPDATE authors
		SET first_name = $1, family_name = $2, date_of_birth = $3, date_of_death = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version`
	args := []any{
		author.FirstName,
		author.FamilyName,
		nullTime(author.DateOfBirth),
		nullTime(author.DateOfDeath),
		author.ID,
		author.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&author.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return translateWrite(err)
		}
	}
	return nil
}

// DeleteAuthor deletes an author record. An author with books returns
// ErrDependencyExists.
func (r *repository) DeleteAuthor(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM authors
		WHERE id = $1`
	return r.deleteRecord(ctx, query, id)
}

// CountAuthors returns the number of author records.
func (r *repository) CountAuthors(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM authors`)
}
