package service

import (
	"context"

	"github.com/emzola/locallibrary/data"
)

type catalog interface {
	CatalogSummary(ctx context.Context) (*data.CatalogSummary, error)
}

// CatalogSummary service counts the records shown on the catalog home page.
// The five counts run concurrently.
func (s *service) CatalogSummary(ctx context.Context) (*data.CatalogSummary, error) {
	var summary data.CatalogSummary
	err := join(ctx,
		func(ctx context.Context) (err error) {
			summary.BookCount, err = s.repo.CountBooks(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			summary.BookInstanceCount, err = s.repo.CountBookInstances(ctx, "")
			return err
		},
		func(ctx context.Context) (err error) {
			summary.BookInstanceAvailableCount, err = s.repo.CountBookInstances(ctx, data.StatusAvailable)
			return err
		},
		func(ctx context.Context) (err error) {
			summary.AuthorCount, err = s.repo.CountAuthors(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			summary.GenreCount, err = s.repo.CountGenres(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
