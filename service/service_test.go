package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/emzola/locallibrary/config"
	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/jsonlog"
	"github.com/emzola/locallibrary/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *service
	store *memory.Store
	wg    *sync.WaitGroup
}

func newFixture(t *testing.T, cfg config.Config) *fixture {
	t.Helper()
	wg := &sync.WaitGroup{}
	store := memory.New()
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	return &fixture{
		svc:   New(cfg, wg, logger, store, nil, nil, http.DefaultClient),
		store: store,
		wg:    wg,
	}
}

// seed stores an author, a genre and a book filed under that genre.
func (f *fixture) seed(t *testing.T) (*data.Author, *data.Genre, *data.Book) {
	t.Helper()
	ctx := context.Background()
	author := &data.Author{FirstName: "Frank", FamilyName: "Herbert"}
	require.NoError(t, f.store.CreateAuthor(ctx, author))
	genre := &data.Genre{Name: "Science Fiction"}
	require.NoError(t, f.store.CreateGenre(ctx, genre))
	book := &data.Book{Title: "Dune", AuthorID: author.ID, Summary: "Spice", ISBN: "9780441013593", GenreIDs: []int64{genre.ID}}
	require.NoError(t, f.store.CreateBook(ctx, book))
	return author, genre, book
}

func TestJoin(t *testing.T) {
	t.Run("Waits for every call", func(t *testing.T) {
		var n int32
		err := join(context.Background(),
			func(context.Context) error { atomic.AddInt32(&n, 1); return nil },
			func(context.Context) error { atomic.AddInt32(&n, 1); return nil },
			func(context.Context) error { atomic.AddInt32(&n, 1); return nil },
		)
		require.NoError(t, err)
		assert.EqualValues(t, 3, atomic.LoadInt32(&n))
	})

	t.Run("First error wins and cancels the rest", func(t *testing.T) {
		boom := errors.New("boom")
		err := join(context.Background(),
			func(context.Context) error { return boom },
			func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		)
		assert.ErrorIs(t, err, boom)
	})
}

func TestCatalogSummary(t *testing.T) {
	f := newFixture(t, config.Config{})
	_, _, book := f.seed(t)
	ctx := context.Background()
	require.NoError(t, f.store.CreateBookInstance(ctx, &data.BookInstance{BookID: book.ID, Imprint: "Ace", Status: data.StatusAvailable}))
	require.NoError(t, f.store.CreateBookInstance(ctx, &data.BookInstance{BookID: book.ID, Imprint: "Ace", Status: data.StatusMaintenance}))

	summary, err := f.svc.CatalogSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.CatalogSummary{
		BookCount:                  1,
		BookInstanceCount:          2,
		BookInstanceAvailableCount: 1,
		AuthorCount:                1,
		GenreCount:                 1,
	}, *summary)
}

func TestDetailNotFound(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()

	_, err := f.svc.GetGenreDetail(ctx, 404)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = f.svc.GetAuthorDetail(ctx, 404)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = f.svc.GetBookDetail(ctx, 404)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = f.svc.GetBookInstance(ctx, 404)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	f := newFixture(t, config.Config{})
	_, err := f.svc.CreateGenre(context.Background(), dto.GenreForm{Name: ""})
	require.ErrorIs(t, err, ErrFailedValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "Genre name required", verr.Errors[0].Message)
	assert.Contains(t, err.Error(), "name: Genre name required")
}
