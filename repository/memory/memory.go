// Package memory implements the catalog repository in process memory. It
// enforces the same constraints as the Postgres schema and is used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/repository"
)

// Store is an in-memory repository.Repository. Every read returns copies.
type Store struct {
	mu        sync.RWMutex
	nextID    int64
	genres    map[int64]data.Genre
	authors   map[int64]data.Author
	books     map[int64]data.Book
	instances map[int64]data.BookInstance
}

var _ repository.Repository = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		genres:    make(map[int64]data.Genre),
		authors:   make(map[int64]data.Author),
		books:     make(map[int64]data.Book),
		instances: make(map[int64]data.BookInstance),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

// Genres.

func (s *Store) GetGenre(ctx context.Context, id int64) (*data.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	genre, ok := s.genres[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &genre, nil
}

func (s *Store) GetGenreByName(ctx context.Context, name string) (*data.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, genre := range s.genres {
		if genre.Name == name {
			genre := genre
			return &genre, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (s *Store) GetAllGenres(ctx context.Context) ([]*data.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	genres := make([]*data.Genre, 0, len(s.genres))
	for _, genre := range s.genres {
		genre := genre
		genres = append(genres, &genre)
	}
	sortGenres(genres)
	return genres, nil
}

func (s *Store) GetGenresForBook(ctx context.Context, bookID int64) ([]*data.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	genres := []*data.Genre{}
	book, ok := s.books[bookID]
	if !ok {
		return genres, nil
	}
	for _, id := range book.GenreIDs {
		if genre, ok := s.genres[id]; ok {
			genres = append(genres, &genre)
		}
	}
	sortGenres(genres)
	return genres, nil
}

func sortGenres(genres []*data.Genre) {
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Name != genres[j].Name {
			return genres[i].Name < genres[j].Name
		}
		return genres[i].ID < genres[j].ID
	})
}

func (s *Store) CreateGenre(ctx context.Context, genre *data.Genre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genreNameTaken(genre.Name, 0) {
		return repository.ErrDuplicateRecord
	}
	genre.ID = s.id()
	genre.Version = 1
	s.genres[genre.ID] = *genre
	return nil
}

func (s *Store) UpdateGenre(ctx context.Context, genre *data.Genre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.genres[genre.ID]
	if !ok || current.Version != genre.Version {
		return repository.ErrEditConflict
	}
	if s.genreNameTaken(genre.Name, genre.ID) {
		return repository.ErrDuplicateRecord
	}
	genre.Version++
	s.genres[genre.ID] = *genre
	return nil
}

func (s *Store) genreNameTaken(name string, except int64) bool {
	for id, genre := range s.genres {
		if id != except && genre.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) DeleteGenre(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[id]; !ok {
		return repository.ErrRecordNotFound
	}
	for _, book := range s.books {
		for _, genreID := range book.GenreIDs {
			if genreID == id {
				return repository.ErrDependencyExists
			}
		}
	}
	delete(s.genres, id)
	return nil
}

func (s *Store) CountGenres(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.genres), nil
}

// Authors.

func (s *Store) GetAuthor(ctx context.Context, id int64) (*data.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	author, ok := s.authors[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return s.copyAuthor(author), nil
}

func (s *Store) copyAuthor(author data.Author) *data.Author {
	author.DateOfBirth = copyTime(author.DateOfBirth)
	author.DateOfDeath = copyTime(author.DateOfDeath)
	return &author
}

func (s *Store) GetAllAuthors(ctx context.Context) ([]*data.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	authors := make([]*data.Author, 0, len(s.authors))
	for _, author := range s.authors {
		authors = append(authors, s.copyAuthor(author))
	}
	sort.Slice(authors, func(i, j int) bool {
		a, b := authors[i], authors[j]
		if a.FamilyName != b.FamilyName {
			return a.FamilyName < b.FamilyName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})
	return authors, nil
}

func (s *Store) CreateAuthor(ctx context.Context, author *data.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	author.ID = s.id()
	author.Version = 1
	s.authors[author.ID] = *s.copyAuthor(*author)
	return nil
}

func (s *Store) UpdateAuthor(ctx context.Context, author *data.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.authors[author.ID]
	if !ok || current.Version != author.Version {
		return repository.ErrEditConflict
	}
	author.Version++
	s.authors[author.ID] = *s.copyAuthor(*author)
	return nil
}

func (s *Store) DeleteAuthor(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[id]; !ok {
		return repository.ErrRecordNotFound
	}
	for _, book := range s.books {
		if book.AuthorID == id {
			return repository.ErrDependencyExists
		}
	}
	delete(s.authors, id)
	return nil
}

func (s *Store) CountAuthors(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.authors), nil
}

// Books.

// resolveBook copies book and attaches its author. Callers hold the lock.
func (s *Store) resolveBook(book data.Book) *data.Book {
	book.GenreIDs = copyIDs(book.GenreIDs)
	if author, ok := s.authors[book.AuthorID]; ok {
		book.Author = s.copyAuthor(author)
	}
	return &book
}

func (s *Store) GetBook(ctx context.Context, id int64) (*data.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	book, ok := s.books[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return s.resolveBook(book), nil
}

func (s *Store) filterBooks(keep func(data.Book) bool) []*data.Book {
	books := []*data.Book{}
	for _, book := range s.books {
		if keep(book) {
			books = append(books, s.resolveBook(book))
		}
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID < books[j].ID
	})
	return books
}

func (s *Store) GetAllBooks(ctx context.Context) ([]*data.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterBooks(func(data.Book) bool { return true }), nil
}

func (s *Store) GetBooksForGenre(ctx context.Context, genreID int64) ([]*data.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterBooks(func(book data.Book) bool {
		for _, id := range book.GenreIDs {
			if id == genreID {
				return true
			}
		}
		return false
	}), nil
}

func (s *Store) GetBooksForAuthor(ctx context.Context, authorID int64) ([]*data.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterBooks(func(book data.Book) bool { return book.AuthorID == authorID }), nil
}

// checkBookReferences reports ErrInvalidReference for an unknown author or
// genre. Callers hold the lock.
func (s *Store) checkBookReferences(book *data.Book) error {
	if _, ok := s.authors[book.AuthorID]; !ok {
		return repository.ErrInvalidReference
	}
	seen := make(map[int64]bool)
	for _, id := range book.GenreIDs {
		if _, ok := s.genres[id]; !ok {
			return repository.ErrInvalidReference
		}
		if seen[id] {
			return repository.ErrDuplicateRecord
		}
		seen[id] = true
	}
	return nil
}

func (s *Store) storedBook(book *data.Book) data.Book {
	stored := *book
	stored.Author = nil
	stored.GenreIDs = copyIDs(book.GenreIDs)
	return stored
}

func (s *Store) CreateBook(ctx context.Context, book *data.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkBookReferences(book); err != nil {
		return err
	}
	book.ID = s.id()
	book.Version = 1
	s.books[book.ID] = s.storedBook(book)
	return nil
}

func (s *Store) UpdateBook(ctx context.Context, book *data.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.books[book.ID]
	if !ok || current.Version != book.Version {
		return repository.ErrEditConflict
	}
	if err := s.checkBookReferences(book); err != nil {
		return err
	}
	book.Version++
	s.books[book.ID] = s.storedBook(book)
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return repository.ErrRecordNotFound
	}
	for _, instance := range s.instances {
		if instance.BookID == id {
			return repository.ErrDependencyExists
		}
	}
	delete(s.books, id)
	return nil
}

func (s *Store) CountBooks(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books), nil
}

// Book instances.

// resolveBookInstance copies instance and attaches its book's id and title.
// Callers hold the lock.
func (s *Store) resolveBookInstance(instance data.BookInstance) *data.BookInstance {
	instance.DueBack = copyTime(instance.DueBack)
	instance.Book = &data.Book{ID: instance.BookID}
	if book, ok := s.books[instance.BookID]; ok {
		instance.Book.Title = book.Title
	}
	return &instance
}

func (s *Store) GetBookInstance(ctx context.Context, id int64) (*data.BookInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.instances[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return s.resolveBookInstance(instance), nil
}

func (s *Store) GetAllBookInstances(ctx context.Context) ([]*data.BookInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instances := make([]*data.BookInstance, 0, len(s.instances))
	for _, instance := range s.instances {
		instances = append(instances, s.resolveBookInstance(instance))
	}
	sort.Slice(instances, func(i, j int) bool {
		if c := strings.Compare(instances[i].Book.Title, instances[j].Book.Title); c != 0 {
			return c < 0
		}
		return instances[i].ID < instances[j].ID
	})
	return instances, nil
}

func (s *Store) GetBookInstancesForBook(ctx context.Context, bookID int64) ([]*data.BookInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instances := []*data.BookInstance{}
	for _, instance := range s.instances {
		if instance.BookID == bookID {
			instances = append(instances, s.resolveBookInstance(instance))
		}
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].ID < instances[j].ID })
	return instances, nil
}

func (s *Store) storedBookInstance(instance *data.BookInstance) data.BookInstance {
	stored := *instance
	stored.Book = nil
	stored.DueBack = copyTime(instance.DueBack)
	return stored
}

func (s *Store) CreateBookInstance(ctx context.Context, instance *data.BookInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[instance.BookID]; !ok {
		return repository.ErrInvalidReference
	}
	instance.ID = s.id()
	instance.Version = 1
	s.instances[instance.ID] = s.storedBookInstance(instance)
	return nil
}

func (s *Store) UpdateBookInstance(ctx context.Context, instance *data.BookInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.instances[instance.ID]
	if !ok || current.Version != instance.Version {
		return repository.ErrEditConflict
	}
	if _, ok := s.books[instance.BookID]; !ok {
		return repository.ErrInvalidReference
	}
	instance.Version++
	s.instances[instance.ID] = s.storedBookInstance(instance)
	return nil
}

func (s *Store) DeleteBookInstance(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(s.instances, id)
	return nil
}

func (s *Store) CountBookInstances(ctx context.Context, status string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status == "" {
		return len(s.instances), nil
	}
	n := 0
	for _, instance := range s.instances {
		if instance.Status == status {
			n++
		}
	}
	return n, nil
}
