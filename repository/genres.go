package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emzola/locallibrary/data"
)

type genres interface {
	GetGenre(ctx context.Context, id int64) (*data.Genre, error)
	GetGenreByName(ctx context.Context, name string) (*data.Genre, error)
	GetAllGenres(ctx context.Context) ([]*data.Genre, error)
	GetGenresForBook(ctx context.Context, bookID int64) ([]*data.Genre, error)
	CreateGenre(ctx context.Context, genre *data.Genre) error
	UpdateGenre(ctx context.Context, genre *data.Genre) error
	DeleteGenre(ctx context.Context, id int64) error
	CountGenres(ctx context.Context) (int, error)
}

// GetGenre retrieves a genre record by its ID.
func (r *repository) GetGenre(ctx context.Context, id int64) (*data.Genre, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, name, version
		FROM genres
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var genre data.Genre
	err := r.db.QueryRowContext(ctx, query, id).Scan(&genre.ID, &genre.Name, &genre.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &genre, nil
}

// GetGenreByName retrieves the genre whose name matches exactly.
func (r *repository) GetGenreByName(ctx context.Context, name string) (*data.Genre, error) {
	query := `
		SELECT id, name, version
		FROM genres
		WHERE name = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var genre data.Genre
	err := r.db.QueryRowContext(ctx, query, name).Scan(&genre.ID, &genre.Name, &genre.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &genre, nil
}

// GetAllGenres retrieves every genre ordered by name.
func (r *repository) GetAllGenres(ctx context.Context) ([]*data.Genre, error) {
	query := `
		SELECT id, name, version
		FROM genres
		ORDER BY name ASC, id ASC`
	return r.queryGenres(ctx, query)
}

// GetGenresForBook retrieves the genres a book is filed under.
func (r *repository) GetGenresForBook(ctx context.Context, bookID int64) ([]*data.Genre, error) {
	query := `
		SELECT genres.id, genres.name, genres.version
		FROM genres
		INNER JOIN books_genres ON books_genres.genre_id = genres.id
		WHERE books_genres.book_id = $1
		ORDER BY genres.name ASC, genres.id ASC`
	return r.queryGenres(ctx, query, bookID)
}

func (r *repository) queryGenres(ctx context.Context, query string, args ...any) ([]*data.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := []*data.Genre{}
	for rows.Next() {
		var genre data.Genre
		err := rows.Scan(&genre.ID, &genre.Name, &genre.Version)
		if err != nil {
			return nil, err
		}
		genres = append(genres, &genre)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return genres, nil
}

// CreateGenre creates a new genre record. A name that is already taken
// returns ErrDuplicateRecord.
func (r *repository) CreateGenre(ctx context.Context, genre *data.Genre) error {
	query := `
		INSERT INTO genres (name)
		VALUES ($1)
		RETURNING id, version`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, genre.Name).Scan(&genre.ID, &genre.Version)
	if err != nil {
		return translateWrite(err)
	}
	return nil
}

// UpdateGenre updates a genre record.
func (r *repository) UpdateGenre(ctx context.Context, genre *data.Genre) error {
	query := `
		UPDATE genres
		SET name = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version`
	args := []any{genre.Name, genre.ID, genre.Version}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&genre.Version)
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

// DeleteGenre deletes a genre record. A genre still referenced by a book
// returns ErrDependencyExists.
func (r *repository) DeleteGenre(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM genres
		WHERE id = $1`
	return r.deleteRecord(ctx, query, id)
}

// CountGenres returns the number of genre records.
func (r *repository) CountGenres(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM genres`)
}

func (r *repository) deleteRecord(ctx context.Context, query string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translateDelete(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *repository) count(ctx context.Context, query string, args ...any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var n int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
