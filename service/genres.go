package service

import (
	"context"
	"errors"

	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
	"github.com/emzola/locallibrary/repository"
)

type genres interface {
	ListGenres(ctx context.Context) ([]*data.Genre, error)
	GetGenre(ctx context.Context, id int64) (*data.Genre, error)
	GetGenreDetail(ctx context.Context, id int64) (*data.GenreDetail, error)
	CreateGenre(ctx context.Context, form dto.GenreForm) (*data.Genre, error)
	UpdateGenre(ctx context.Context, id int64, form dto.GenreForm) (*data.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error
}

// ListGenres service retrieves every genre sorted by name.
func (s *service) ListGenres(ctx context.Context) ([]*data.Genre, error) {
	return s.repo.GetAllGenres(ctx)
}

// GetGenre service retrieves a genre.
func (s *service) GetGenre(ctx context.Context, id int64) (*data.Genre, error) {
	genre, err := s.repo.GetGenre(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return genre, nil
}

// GetGenreDetail service retrieves a genre and the books filed under it.
func (s *service) GetGenreDetail(ctx context.Context, id int64) (*data.GenreDetail, error) {
	var detail data.GenreDetail
	err := join(ctx,
		func(ctx context.Context) (err error) {
			detail.Genre, err = s.repo.GetGenre(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			detail.Books, err = s.repo.GetBooksForGenre(ctx, id)
			return err
		},
	)
	if err != nil {
		return nil, repoError(err)
	}
	return &detail, nil
}

// CreateGenre service creates a genre. When a genre with exactly the same
// name exists it is returned instead and nothing is inserted.
func (s *service) CreateGenre(ctx context.Context, form dto.GenreForm) (*data.Genre, error) {
	v := validator.New()
	draft := data.NewGenreDraft(v, 0, form)
	if !v.Valid() {
		return nil, newValidationError(draft, v)
	}
	existing, err := s.repo.GetGenreByName(ctx, draft.Name)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, repository.ErrRecordNotFound):
		return nil, err
	}
	genre := draft.Genre()
	err = s.repo.CreateGenre(ctx, genre)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			// Lost a race with a concurrent create of the same name.
			existing, err := s.repo.GetGenreByName(ctx, draft.Name)
			if err != nil {
				return nil, repoError(err)
			}
			return existing, nil
		default:
			return nil, err
		}
	}
	return genre, nil
}

// UpdateGenre service replaces the name of an existing genre.
func (s *service) UpdateGenre(ctx context.Context, id int64, form dto.GenreForm) (*data.Genre, error) {
	v := validator.New()
	draft := data.NewGenreDraft(v, id, form)
	if !v.Valid() {
		return nil, newValidationError(draft, v)
	}
	genre, err := s.repo.GetGenre(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	genre.Name = draft.Name
	err = s.repo.UpdateGenre(ctx, genre)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("name", "Genre already exists")
			return nil, newValidationError(draft, v)
		default:
			return nil, repoError(err)
		}
	}
	return genre, nil
}

// DeleteGenre service deletes a genre that no book is filed under. Otherwise
// it returns a *DependencyError listing those books.
func (s *service) DeleteGenre(ctx context.Context, id int64) error {
	detail, err := s.GetGenreDetail(ctx, id)
	if err != nil {
		return err
	}
	if len(detail.Books) > 0 {
		return &DependencyError{Entity: detail.Genre, Dependents: detail.Books}
	}
	err = s.repo.DeleteGenre(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDependencyExists):
			books, ferr := s.repo.GetBooksForGenre(ctx, id)
			if ferr != nil {
				return ferr
			}
			return &DependencyError{Entity: detail.Genre, Dependents: books}
		default:
			return repoError(err)
		}
	}
	return nil
}
