package data

import (
	"fmt"

	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
)

// Genre defines a book genre.
type Genre struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Version int32  `json:"-"`
}

// URL returns the canonical location of the genre.
func (g *Genre) URL() string {
	return fmt.Sprintf("/catalog/genre/%d", g.ID)
}

func (g Genre) MarshalJSON() ([]byte, error) {
	type genre Genre
	return withURL(genre(g), g.URL())
}

// GenreDetail is a genre together with the books filed under it.
type GenreDetail struct {
	Genre *Genre  `json:"genre"`
	Books []*Book `json:"genre_books"`
}

// GenreDraft is sanitized genre input that may still be invalid.
type GenreDraft struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

var genreNameRule = validator.Rule{
	Field:         "name",
	Message:       "Genre name required",
	LengthMessage: "Genre name must be between 3 and 100 characters",
	Trim:          true,
	Escape:        true,
	Required:      true,
	MinLen:        3,
	MaxLen:        100,
}

// NewGenreDraft sanitizes form into a draft for the genre with the given id
// (0 for a new genre) and records any failed checks on v.
func NewGenreDraft(v *validator.Validator, id int64, form dto.GenreForm) *GenreDraft {
	return &GenreDraft{
		ID:   id,
		Name: v.Apply(genreNameRule, form.Name),
	}
}

// Genre builds the entity from a draft that passed validation.
func (d *GenreDraft) Genre() *Genre {
	return &Genre{ID: d.ID, Name: d.Name}
}
