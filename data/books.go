package data

import (
	"fmt"

	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
)

const ScopeCover = "cover"

// Book defines a catalog book. Author is resolved on reads that join the
// authors table; GenreIDs is filled on single-book reads and on writes.
type Book struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	AuthorID int64   `json:"author_id"`
	Author   *Author `json:"author,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	ISBN     string  `json:"isbn,omitempty"`
	GenreIDs []int64 `json:"genre_ids,omitempty"`
	CoverURL string  `json:"cover_url,omitempty"`
	Version  int32   `json:"-"`
}

// URL returns the canonical location of the book.
func (b *Book) URL() string {
	return fmt.Sprintf("/catalog/book/%d", b.ID)
}

func (b Book) MarshalJSON() ([]byte, error) {
	type book Book
	return withURL(book(b), b.URL())
}

// BookDetail is a book with its genres and copies resolved.
type BookDetail struct {
	Book      *Book           `json:"book"`
	Genres    []*Genre        `json:"genres"`
	Instances []*BookInstance `json:"book_instances"`
}

// BookFormOptions holds the reference lists a book form offers.
type BookFormOptions struct {
	Authors []*Author `json:"authors"`
	Genres  []*Genre  `json:"genres"`
}

// BookDraft is sanitized book input that may still be invalid.
type BookDraft struct {
	ID      int64    `json:"id,omitempty"`
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Summary string   `json:"summary"`
	ISBN    string   `json:"isbn"`
	Genre   []string `json:"genre"`
}

var (
	bookTitleRule   = validator.Rule{Field: "title", Message: "Title must not be empty.", Trim: true, Escape: true, Required: true, MaxLen: 500}
	bookAuthorRule  = validator.Rule{Field: "author", Message: "Author must not be empty.", Trim: true, Escape: true, Required: true}
	bookSummaryRule = validator.Rule{Field: "summary", Message: "Summary must not be empty.", Trim: true, Escape: true, Required: true, MaxLen: 2000}
	bookISBNRule    = validator.Rule{Field: "isbn", Message: "ISBN must not be empty", Trim: true, Escape: true, Required: true, MaxLen: 17}
	bookGenreRule   = validator.Rule{Field: "genre", Message: "Invalid genre", Trim: true, Escape: true}
)

// NewBookDraft sanitizes form into a draft for the book with the given id
// (0 for a new book) and records any failed checks on v.
func NewBookDraft(v *validator.Validator, id int64, form dto.BookForm) *BookDraft {
	draft := &BookDraft{
		ID:      id,
		Title:   v.Apply(bookTitleRule, form.Title),
		Author:  v.Apply(bookAuthorRule, form.Author),
		Summary: v.Apply(bookSummaryRule, form.Summary),
		ISBN:    v.Apply(bookISBNRule, form.ISBN),
		Genre:   []string{},
	}
	if !v.Has("author") {
		_, ok := parseID(draft.Author)
		v.Check(ok, "author", "Author must not be empty.")
	}
	for _, raw := range form.Genre {
		genre := v.Apply(bookGenreRule, raw)
		if genre == "" {
			continue
		}
		_, ok := parseID(genre)
		v.Check(ok, "genre", "Invalid genre")
		draft.Genre = append(draft.Genre, genre)
	}
	v.Check(validator.Unique(draft.Genre), "genre", "must not contain duplicate values")
	return draft
}

// AuthorID returns the referenced author id, or 0 when it is not a valid id.
func (d *BookDraft) AuthorID() int64 {
	id, _ := parseID(d.Author)
	return id
}

// GenreIDs returns the referenced genre ids that parse as valid ids.
func (d *BookDraft) GenreIDs() []int64 {
	ids := []int64{}
	for _, genre := range d.Genre {
		if id, ok := parseID(genre); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Book builds the entity from a draft that passed validation.
func (d *BookDraft) Book() *Book {
	return &Book{
		ID:       d.ID,
		Title:    d.Title,
		AuthorID: d.AuthorID(),
		Summary:  d.Summary,
		ISBN:     d.ISBN,
		GenreIDs: d.GenreIDs(),
	}
}
