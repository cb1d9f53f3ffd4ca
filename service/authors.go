package service

import (
	"context"
	"errors"

	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
	"github.com/emzola/locallibrary/repository"
)

type authors interface {
	ListAuthors(ctx context.Context) ([]*data.Author, error)
	GetAuthor(ctx context.Context, id int64) (*data.Author, error)
	GetAuthorDetail(ctx context.Context, id int64) (*data.AuthorDetail, error)
	CreateAuthor(ctx context.Context, form dto.AuthorForm) (*data.Author, error)
	UpdateAuthor(ctx context.Context, id int64, form dto.AuthorForm) (*data.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error
}

// ListAuthors service retrieves every author sorted by family name.
func (s *service) ListAuthors(ctx context.Context) ([]*data.Author, error) {
	return s.repo.GetAllAuthors(ctx)
}

// GetAuthor service retrieves an author.
func (s *service) GetAuthor(ctx context.Context, id int64) (*data.Author, error) {
	author, err := s.repo.GetAuthor(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return author, nil
}

// GetAuthorDetail service retrieves an author and their books.
func (s *service) GetAuthorDetail(ctx context.Context, id int64) (*data.AuthorDetail, error) {
	var detail data.AuthorDetail
	err := join(ctx,
		func(ctx context.Context) (err error) {
			detail.Author, err = s.repo.GetAuthor(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			detail.Books, err = s.repo.GetBooksForAuthor(ctx, id)
			return err
		},
	)
	if err != nil {
		return nil, repoError(err)
	}
	return &detail, nil
}

// CreateAuthor service creates an author.
func (s *service) CreateAuthor(ctx context.Context, form dto.AuthorForm) (*data.Author, error) {
	v := validator.New()
	draft := data.NewAuthorDraft(v, 0, form)
	if !v.Valid() {
		return nil, newValidationError(draft, v)
	}
	author := draft.Author()
	err := s.repo.CreateAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	return author, nil
}

// UpdateAuthor service replaces the fields of an existing author.
func (s *service) UpdateAuthor(ctx context.Context, id int64, form dto.AuthorForm) (*data.Author, error) {
	v := validator.New()
	draft := data.NewAuthorDraft(v, id, form)
	if !v.Valid() {
		return nil, newValidationError(draft, v)
	}
	current, err := s.repo.GetAuthor(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	author := draft.Author()
	author.Version = current.Version
	err = s.repo.UpdateAuthor(ctx, author)
	if err != nil {
		return nil, repoError(err)
	}
	return author, nil
}

// DeleteAuthor service deletes an author with no books. Otherwise it returns
// a *DependencyError listing the books.
func (s *service) DeleteAuthor(ctx context.Context, id int64) error {
	detail, err := s.GetAuthorDetail(ctx, id)
	if err != nil {
		return err
	}
	if len(detail.Books) > 0 {
		return &DependencyError{Entity: detail.Author, Dependents: detail.Books}
	}
	err = s.repo.DeleteAuthor(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDependencyExists):
			books, ferr := s.repo.GetBooksForAuthor(ctx, id)
			if ferr != nil {
				return ferr
			}
			return &DependencyError{Entity: detail.Author, Dependents: books}
		default:
			return repoError(err)
		}
	}
	return nil
}
