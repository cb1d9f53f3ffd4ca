package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emzola/locallibrary/data"
	"github.com/lib/pq"
)

type books interface {
	GetBook(ctx context.Context, id int64) (*data.Book, error)
	GetAllBooks(ctx context.Context) ([]*data.Book, error)
	GetBooksForGenre(ctx context.Context, genreID int64) ([]*data.Book, error)
	GetBooksForAuthor(ctx context.Context, authorID int64) ([]*data.Book, error)
	CreateBook(ctx context.Context, book *data.Book) error
	UpdateBook(ctx context.Context, book *data.Book) error
	DeleteBook(ctx context.Context, id int64) error
	CountBooks(ctx context.Context) (int, error)
}

// GetBook retrieves a book record by its ID, together with its author and
// the ids of its genres.
func (r *repository) GetBook(ctx context.Context, id int64) (*data.Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT books.id, books.title, books.author_id, books.summary, books.isbn, books.cover_url, books.version,
		authors.first_name, authors.family_name, authors.date_of_birth, authors.date_of_death,
		COALESCE(array_agg(books_genres.genre_id) FILTER (WHERE books_genres.genre_id IS NOT NULL), '{}')
		FROM books
		INNER JOIN authors ON authors.id = books.author_id
		LEFT JOIN books_genres ON books_genres.book_id = books.id
		WHERE books.id = $1
		GROUP BY books.id, authors.id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var (
		book         data.Book
		author       data.Author
		birth, death sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.AuthorID,
		&book.Summary,
		&book.ISBN,
		&book.CoverURL,
		&book.Version,
		&author.FirstName,
		&author.FamilyName,
		&birth,
		&death,
		pq.Array(&book.GenreIDs),
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	author.ID = book.AuthorID
	author.DateOfBirth = timePtr(birth)
	author.DateOfDeath = timePtr(death)
	book.Author = &author
	return &book, nil
}

// GetAllBooks retrieves every book ordered by title, with authors resolved.
func (r *repository) GetAllBooks(ctx context.Context) ([]*data.Book, error) {
	query := `
		SELECT books.id, books.title, books.author_id, books.summary, books.isbn, books.cover_url, books.version,
		authors.first_name, authors.family_name
		FROM books
		INNER JOIN authors ON authors.id = books.author_id
		ORDER BY books.title ASC, books.id ASC`
	return r.queryBooks(ctx, query)
}

// GetBooksForGenre retrieves the books filed under a genre.
func (r *repository) GetBooksForGenre(ctx context.Context, genreID int64) ([]*data.Book, error) {
	query := `
		SELECT books.id, books.title, books.author_id, books.summary, books.isbn, books.cover_url, books.version,
		authors.first_name, authors.family_name
		FROM books
		INNER JOIN authors ON authors.id = books.author_id
		INNER JOIN books_genres ON books_genres.book_id = books.id
		WHERE books_genres.genre_id = $1
		ORDER BY books.title ASC, books.id ASC`
	return r.queryBooks(ctx, query, genreID)
}

// GetBooksForAuthor retrieves the books written by an author.
func (r *repository) GetBooksForAuthor(ctx context.Context, authorID int64) ([]*data.Book, error) {
	query := `
		SELECT books.id, books.title, books.author_id, books.summary, books.isbn, books.cover_url, books.version,
		authors.first_name, authors.family_name
		FROM books
		INNER JOIN authors ON authors.id = books.author_id
		WHERE books.author_id = $1
		ORDER BY books.title ASC, books.id ASC`
	return r.queryBooks(ctx, query, authorID)
}

func (r *repository) queryBooks(ctx context.Context, query string, args ...any) ([]*data.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	books := []*data.Book{}
	for rows.Next() {
		var (
			book   data.Book
			author data.Author
		)
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.AuthorID,
			&book.Summary,
			&book.ISBN,
			&book.CoverURL,
			&book.Version,
			&author.FirstName,
			&author.FamilyName,
		)
		if err != nil {
			return nil, err
		}
		author.ID = book.AuthorID
		book.Author = &author
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook creates a new book record and files it under its genres. An
// author or genre that does not exist returns ErrInvalidReference.
func (r *repository) CreateBook(ctx context.Context, book *data.Book) error {
	query := `
		INSERT INTO books (title, author_id, summary, isbn, cover_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, version`
	args := []any{book.Title, book.AuthorID, book.Summary, book.ISBN, book.CoverURL}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.Version)
		if err != nil {
			return err
		}
		return addGenresForBook(ctx, tx, book.ID, book.GenreIDs)
	})
	if err != nil {
		return translateWrite(err)
	}
	return nil
}

// UpdateBook updates a book record and replaces its genres.
func (r *repository) UpdateBook(ctx context.Context, book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, author_id = $2, summary = $3, isbn = $4, cover_url = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`
	args := []any{
		book.Title,
		book.AuthorID,
		book.Summary,
		book.ISBN,
		book.CoverURL,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query, args...).Scan(&book.Version)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return ErrEditConflict
			default:
				return err
			}
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM books_genres WHERE book_id = $1`, book.ID)
		if err != nil {
			return err
		}
		return addGenresForBook(ctx, tx, book.ID, book.GenreIDs)
	})
	if err != nil {
		return translateWrite(err)
	}
	return nil
}

func addGenresForBook(ctx context.Context, tx *sql.Tx, bookID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO books_genres (book_id, genre_id)
		SELECT $1, unnest($2::bigint[])`
	_, err := tx.ExecContext(ctx, query, bookID, pq.Array(genreIDs))
	return err
}

// DeleteBook deletes a book record. A book with copies returns
// ErrDependencyExists.
func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM books
		WHERE id = $1`
	return r.deleteRecord(ctx, query, id)
}

// CountBooks returns the number of book records.
func (r *repository) CountBooks(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM books`)
}
