package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
	"github.com/emzola/locallibrary/repository"
)

type books interface {
	ListBooks(ctx context.Context) ([]*data.Book, error)
	GetBook(ctx context.Context, id int64) (*data.Book, error)
	GetBookDetail(ctx context.Context, id int64) (*data.BookDetail, error)
	BookFormOptions(ctx context.Context) (*data.BookFormOptions, error)
	CreateBook(ctx context.Context, form dto.BookForm) (*data.Book, error)
	UpdateBook(ctx context.Context, id int64, form dto.BookForm) (*data.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	UpdateBookCover(ctx context.Context, id int64, cover CoverUpload) (*data.Book, error)
	LookupISBN(ctx context.Context, isbn string) (*dto.BookForm, error)
}

// ListBooks service retrieves every book sorted by title, with authors.
func (s *service) ListBooks(ctx context.Context) ([]*data.Book, error) {
	return s.repo.GetAllBooks(ctx)
}

// GetBook service retrieves a book with its author and genre ids.
func (s *service) GetBook(ctx context.Context, id int64) (*data.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return book, nil
}

// GetBookDetail service retrieves a book, its genres and its copies.
func (s *service) GetBookDetail(ctx context.Context, id int64) (*data.BookDetail, error) {
	var detail data.BookDetail
	err := join(ctx,
		func(ctx context.Context) (err error) {
			detail.Book, err = s.repo.GetBook(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			detail.Genres, err = s.repo.GetGenresForBook(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			detail.Instances, err = s.repo.GetBookInstancesForBook(ctx, id)
			return err
		},
	)
	if err != nil {
		return nil, repoError(err)
	}
	return &detail, nil
}

// BookFormOptions service retrieves the authors and genres a book form
// offers.
func (s *service) BookFormOptions(ctx context.Context) (*data.BookFormOptions, error) {
	var options data.BookFormOptions
	err := join(ctx,
		func(ctx context.Context) (err error) {
			options.Authors, err = s.repo.GetAllAuthors(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			options.Genres, err = s.repo.GetAllGenres(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return &options, nil
}

// checkBookReferences records an error on v for an author or genre that does
// not exist. Fields that already failed are not checked again.
func (s *service) checkBookReferences(ctx context.Context, v *validator.Validator, draft *data.BookDraft) error {
	if !v.Has("author") {
		_, err := s.repo.GetAuthor(ctx, draft.AuthorID())
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("author", "Author not found")
		case err != nil:
			return err
		}
	}
	if v.Has("genre") {
		return nil
	}
	for _, id := range draft.GenreIDs() {
		_, err := s.repo.GetGenre(ctx, id)
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("genre", "Genre not found")
			return nil
		case err != nil:
			return err
		}
	}
	return nil
}

// validateBook runs the field rules and then the reference checks, returning
// a *ValidationError when either fails.
func (s *service) validateBook(ctx context.Context, id int64, form dto.BookForm) (*data.BookDraft, error) {
	v := validator.New()
	draft := data.NewBookDraft(v, id, form)
	err := s.checkBookReferences(ctx, v, draft)
	if err != nil {
		return nil, err
	}
	if !v.Valid() {
		return nil, newValidationError(draft, v)
	}
	return draft, nil
}

// bookReferenceError turns a write refused for a missing reference into a
// validation error naming the field.
func (s *service) bookReferenceError(ctx context.Context, draft *data.BookDraft, err error) error {
	if !errors.Is(err, repository.ErrInvalidReference) {
		return repoError(err)
	}
	v := validator.New()
	if cerr := s.checkBookReferences(ctx, v, draft); cerr != nil {
		return cerr
	}
	if v.Valid() {
		return err
	}
	return newValidationError(draft, v)
}

// CreateBook service creates a book filed under the selected genres.
func (s *service) CreateBook(ctx context.Context, form dto.BookForm) (*data.Book, error) {
	draft, err := s.validateBook(ctx, 0, form)
	if err != nil {
		return nil, err
	}
	book := draft.Book()
	err = s.repo.CreateBook(ctx, book)
	if err != nil {
		return nil, s.bookReferenceError(ctx, draft, err)
	}
	return book, nil
}

// UpdateBook service replaces the fields and genres of an existing book. The
// cover is kept.
func (s *service) UpdateBook(ctx context.Context, id int64, form dto.BookForm) (*data.Book, error) {
	draft, err := s.validateBook(ctx, id, form)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	book := draft.Book()
	book.CoverURL = current.CoverURL
	book.Version = current.Version
	err = s.repo.UpdateBook(ctx, book)
	if err != nil {
		return nil, s.bookReferenceError(ctx, draft, err)
	}
	return book, nil
}

// DeleteBook service deletes a book with no copies. Otherwise it returns a
// *DependencyError listing the copies.
func (s *service) DeleteBook(ctx context.Context, id int64) error {
	detail, err := s.GetBookDetail(ctx, id)
	if err != nil {
		return err
	}
	if len(detail.Instances) > 0 {
		return &DependencyError{Entity: detail.Book, Dependents: detail.Instances}
	}
	err = s.repo.DeleteBook(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDependencyExists):
			instances, ferr := s.repo.GetBookInstancesForBook(ctx, id)
			if ferr != nil {
				return ferr
			}
			return &DependencyError{Entity: detail.Book, Dependents: instances}
		default:
			return repoError(err)
		}
	}
	return nil
}

// LookupISBN service fetches an edition from Open Library and returns the
// book form fields it can fill in.
func (s *service) LookupISBN(ctx context.Context, isbn string) (*dto.BookForm, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, ErrBadRequest
	}
	endpoint := strings.TrimSuffix(s.config.OpenLibrary.URL, "/") + "/isbn/" + url.PathEscape(isbn) + ".json"
	body, err := s.fetchRemoteResource(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var edition dto.OpenLibISBNResponse
	err = json.Unmarshal(body, &edition)
	if err != nil {
		return nil, err
	}
	form := &dto.BookForm{Title: edition.Title, ISBN: isbn}
	if edition.Subtitle != "" {
		form.Title += ": " + edition.Subtitle
	}
	switch {
	case len(edition.Isbn13) > 0:
		form.ISBN = edition.Isbn13[0]
	case len(edition.Isbn10) > 0:
		form.ISBN = edition.Isbn10[0]
	}
	return form, nil
}
