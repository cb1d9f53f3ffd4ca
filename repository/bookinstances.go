package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emzola/locallibrary/data"
)

type bookInstances interface {
	GetBookInstance(ctx context.Context, id int64) (*data.BookInstance, error)
	GetAllBookInstances(ctx context.Context) ([]*data.BookInstance, error)
	GetBookInstancesForBook(ctx context.Context, bookID int64) ([]*data.BookInstance, error)
	CreateBookInstance(ctx context.Context, instance *data.BookInstance) error
	UpdateBookInstance(ctx context.Context, instance *data.BookInstance) error
	DeleteBookInstance(ctx context.Context, id int64) error
	CountBookInstances(ctx context.Context, status string) (int, error)
}

const bookInstanceColumns = `book_instances.id, book_instances.book_id, book_instances.imprint,
		book_instances.status, book_instances.due_back, book_instances.version, books.title`

// GetBookInstance retrieves a book copy by its ID, with the book's title.
func (r *repository) GetBookInstance(ctx context.Context, id int64) (*data.BookInstance, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + bookInstanceColumns + `
		FROM book_instances
		INNER JOIN books ON books.id = book_instances.book_id
		WHERE book_instances.id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	instance, err := scanBookInstance(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return instance, nil
}

// GetAllBookInstances retrieves every copy ordered by book title.
func (r *repository) GetAllBookInstances(ctx context.Context) ([]*data.BookInstance, error) {
	query := `
		SELECT ` + bookInstanceColumns + `
		FROM book_instances
		INNER JOIN books ON books.id = book_instances.book_id
		ORDER BY books.title ASC, book_instances.id ASC`
	return r.queryBookInstances(ctx, query)
}

// GetBookInstancesForBook retrieves the copies of a book.
func (r *repository) GetBookInstancesForBook(ctx context.Context, bookID int64) ([]*data.BookInstance, error) {
	query := `
		SELECT ` + bookInstanceColumns + `
		FROM book_instances
		INNER JOIN books ON books.id = book_instances.book_id
		WHERE book_instances.book_id = $1
		ORDER BY book_instances.id ASC`
	return r.queryBookInstances(ctx, query, bookID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBookInstance(row scanner) (*data.BookInstance, error) {
	var (
		instance data.BookInstance
		book     data.Book
		dueBack  sql.NullTime
	)
	err := row.Scan(
		&instance.ID,
		&instance.BookID,
		&instance.Imprint,
		&instance.Status,
		&dueBack,
		&instance.Version,
		&book.Title,
	)
	if err != nil {
		return nil, err
	}
	book.ID = instance.BookID
	instance.Book = &book
	instance.DueBack = timePtr(dueBack)
	return &instance, nil
}

func (r *repository) queryBookInstances(ctx context.Context, query string, args ...any) ([]*data.BookInstance, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	instances := []*data.BookInstance{}
	for rows.Next() {
		instance, err := scanBookInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return instances, nil
}

// CreateBookInstance creates a new copy record. A book that does not exist
// returns ErrInvalidReference.
func (r *repository) CreateBookInstance(ctx context.Context, instance *data.BookInstance) error {
	query := `
		INSERT INTO book_instances (book_id, imprint, status, due_back)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version`
	args := []any{instance.BookID, instance.Imprint, instance.Status, nullTime(instance.DueBack)}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&instance.ID, &instance.Version)
	if err != nil {
		return translateWrite(err)
	}
	return nil
}

// UpdateBookInstance updates a copy record.
func (r *repository) UpdateBookInstance(ctx context.Context, instance *data.BookInstance) error {
	query := `
		UPDATE book_instances
		SET book_id = $1, imprint = $2, status = $3, due_back = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version`
	args := []any{
		instance.BookID,
		instance.Imprint,
		instance.Status,
		nullTime(instance.DueBack),
		instance.ID,
		instance.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&instance.Version)
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

// DeleteBookInstance deletes a copy record.
func (r *repository) DeleteBookInstance(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM book_instances
		WHERE id = $1`
	return r.deleteRecord(ctx, query, id)
}

// CountBookInstances returns the number of copies, restricted to those in
// status unless status is empty.
func (r *repository) CountBookInstances(ctx context.Context, status string) (int, error) {
	query := `
		SELECT count(*)
		FROM book_instances
		WHERE (status = $1 OR $1 = '')`
	return r.count(ctx, query, status)
}
