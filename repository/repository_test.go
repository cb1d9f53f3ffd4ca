package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/emzola/locallibrary/data"
	"github.com/lib/pq"
)

func newMock(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetGenre(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, version FROM genres WHERE id = $1`)).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "version"}).AddRow(2, "Poetry", 1))

		genre, err := repo.GetGenre(context.Background(), 2)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if genre.ID != 2 || genre.Name != "Poetry" || genre.Version != 1 {
			t.Errorf("unexpected genre %+v", genre)
		}
		expectationsMet(t, mock)
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM genres WHERE id = $1`)).
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetGenre(context.Background(), 9)
		if !errors.Is(err, ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound; got %v", err)
		}
		expectationsMet(t, mock)
	})

	t.Run("Invalid id skips the query", func(t *testing.T) {
		repo, mock := newMock(t)
		_, err := repo.GetGenre(context.Background(), 0)
		if !errors.Is(err, ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound; got %v", err)
		}
		expectationsMet(t, mock)
	})
}

func TestCreateGenreDuplicate(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO genres (name)`)).
		WithArgs("Poetry").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateGenre(context.Background(), &data.Genre{Name: "Poetry"})
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord; got %v", err)
	}
	expectationsMet(t, mock)
}

func TestUpdateGenreConflict(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE genres SET name = $1, version = version + 1 WHERE id = $2 AND version = $3 RETURNING version`)).
		WithArgs("Poetry", int64(2), int32(1)).
		WillReturnError(sql.ErrNoRows)

	err := repo.UpdateGenre(context.Background(), &data.Genre{ID: 2, Name: "Poetry", Version: 1})
	if !errors.Is(err, ErrEditConflict) {
		t.Fatalf("expected ErrEditConflict; got %v", err)
	}
	expectationsMet(t, mock)
}

func TestDeleteGenre(t *testing.T) {
	t.Run("Referenced", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM genres WHERE id = $1`)).
			WithArgs(int64(2)).
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.DeleteGenre(context.Background(), 2)
		if !errors.Is(err, ErrDependencyExists) {
			t.Fatalf("expected ErrDependencyExists; got %v", err)
		}
		expectationsMet(t, mock)
	})

	t.Run("Already gone", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM genres WHERE id = $1`)).
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteGenre(context.Background(), 2)
		if !errors.Is(err, ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound; got %v", err)
		}
		expectationsMet(t, mock)
	})
}

func TestGetAllAuthors(t *testing.T) {
	repo, mock := newMock(t)
	birth := time.Date(1954, time.February, 16, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY family_name ASC, first_name ASC, id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "family_name", "date_of_birth", "date_of_death", "version"}).
			AddRow(1, "Iain", "Banks", birth, nil, 1).
			AddRow(2, "Ursula", "Le Guin", nil, nil, 3))

	authors, err := repo.GetAllAuthors(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(authors) != 2 {
		t.Fatalf("expected 2 authors; got %d", len(authors))
	}
	if authors[0].DateOfBirth == nil || !authors[0].DateOfBirth.Equal(birth) || authors[0].DateOfDeath != nil {
		t.Errorf("unexpected dates %+v", authors[0])
	}
	expectationsMet(t, mock)
}

func TestCreateBook(t *testing.T) {
	t.Run("Files genres in the same transaction", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books (title, author_id, summary, isbn, cover_url)`)).
			WithArgs("Dune", int64(1), "Spice", "9780441013593", "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(5, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO books_genres (book_id, genre_id) SELECT $1, unnest($2::bigint[])`)).
			WithArgs(int64(5), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		book := &data.Book{Title: "Dune", AuthorID: 1, Summary: "Spice", ISBN: "9780441013593", GenreIDs: []int64{1, 2}}
		if err := repo.CreateBook(context.Background(), book); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if book.ID != 5 || book.Version != 1 {
			t.Errorf("unexpected book %+v", book)
		}
		expectationsMet(t, mock)
	})

	t.Run("Unknown genre rolls back", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(5, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO books_genres`)).
			WillReturnError(&pq.Error{Code: "23503"})
		mock.ExpectRollback()

		err := repo.CreateBook(context.Background(), &data.Book{Title: "Dune", AuthorID: 1, GenreIDs: []int64{99}})
		if !errors.Is(err, ErrInvalidReference) {
			t.Fatalf("expected ErrInvalidReference; got %v", err)
		}
		expectationsMet(t, mock)
	})
}

func TestGetBook(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE books.id = $1 GROUP BY books.id, authors.id`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "author_id", "summary", "isbn", "cover_url", "version",
			"first_name", "family_name", "date_of_birth", "date_of_death", "genre_ids",
		}).AddRow(5, "Dune", 1, "Spice", "9780441013593", "", 2, "Frank", "Herbert", nil, nil, "{1,3}"))

	book, err := repo.GetBook(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if book.Author == nil || book.Author.Name() != "Herbert, Frank" || book.Author.ID != 1 {
		t.Errorf("unexpected author %+v", book.Author)
	}
	if len(book.GenreIDs) != 2 || book.GenreIDs[0] != 1 || book.GenreIDs[1] != 3 {
		t.Errorf("unexpected genre ids %v", book.GenreIDs)
	}
	expectationsMet(t, mock)
}

func TestBookInstances(t *testing.T) {
	t.Run("List resolves book title", func(t *testing.T) {
		repo, mock := newMock(t)
		due := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY books.title ASC, book_instances.id ASC`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "book_id", "imprint", "status", "due_back", "version", "title"}).
				AddRow(1, 5, "Penguin", "Loaned", due, 1, "Dune").
				AddRow(2, 5, "Ace", "Available", nil, 1, "Dune"))

		instances, err := repo.GetAllBookInstances(context.Background())
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(instances) != 2 || instances[0].Book.Title != "Dune" || instances[0].Book.ID != 5 {
			t.Fatalf("unexpected instances %+v", instances)
		}
		if instances[1].DueBack != nil {
			t.Errorf("expected no due date; got %v", instances[1].DueBack)
		}
		expectationsMet(t, mock)
	})

	t.Run("Count by status", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM book_instances WHERE (status = $1 OR $1 = '')`)).
			WithArgs("Available").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		n, err := repo.CountBookInstances(context.Background(), "Available")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if n != 3 {
			t.Errorf("expected 3; got %d", n)
		}
		expectationsMet(t, mock)
	})

	t.Run("Unknown book", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO book_instances (book_id, imprint, status, due_back)`)).
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.CreateBookInstance(context.Background(), &data.BookInstance{BookID: 42, Imprint: "Penguin", Status: "Maintenance"})
		if !errors.Is(err, ErrInvalidReference) {
			t.Fatalf("expected ErrInvalidReference; got %v", err)
		}
		expectationsMet(t, mock)
	})
}
