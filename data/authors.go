package data

import (
	"fmt"
	"time"

	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
)

// Author defines a book author.
type Author struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"first_name"`
	FamilyName  string     `json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	Version     int32      `json:"-"`
}

// Name returns the author's name as "family, first".
func (a *Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return a.FamilyName + a.FirstName
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan returns the years the author lived, e.g. "1920 - 1992".
func (a *Author) Lifespan() string {
	var birth, death string
	if a.DateOfBirth != nil {
		birth = a.DateOfBirth.Format("2006")
	}
	if a.DateOfDeath != nil {
		death = a.DateOfDeath.Format("2006")
	}
	if birth == "" && death == "" {
		return ""
	}
	return birth + " - " + death
}

// URL returns the canonical location of the author.
func (a *Author) URL() string {
	return fmt.Sprintf("/catalog/author/%d", a.ID)
}

func (a Author) MarshalJSON() ([]byte, error) {
	type author struct {
		ID          int64      `json:"id"`
		FirstName   string     `json:"first_name"`
		FamilyName  string     `json:"family_name"`
		Name        string     `json:"name"`
		Lifespan    string     `json:"lifespan,omitempty"`
		DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
		DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	}
	return withURL(author{
		ID:          a.ID,
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		Name:        a.Name(),
		Lifespan:    a.Lifespan(),
		DateOfBirth: a.DateOfBirth,
		DateOfDeath: a.DateOfDeath,
	}, a.URL())
}

// AuthorDetail is an author together with their books.
type AuthorDetail struct {
	Author *Author `json:"author"`
	Books  []*Book `json:"author_books"`
}

// AuthorDraft is sanitized author input that may still be invalid.
type AuthorDraft struct {
	ID          int64  `json:"id,omitempty"`
	FirstName   string `json:"first_name"`
	FamilyName  string `json:"family_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	DateOfDeath string `json:"date_of_death,omitempty"`
}

var (
	authorFirstNameRule = validator.Rule{
		Field: "first_name", Message: "First name must be specified.",
		Trim: true, Escape: true, Required: true, MaxLen: 100,
	}
	authorFamilyNameRule = validator.Rule{
		Field: "family_name", Message: "Family name must be specified.",
		Trim: true, Escape: true, Required: true, MaxLen: 100,
	}
	authorBirthRule = validator.Rule{Field: "date_of_birth", Message: "Invalid date of birth", Trim: true, ISO8601: true}
	authorDeathRule = validator.Rule{Field: "date_of_death", Message: "Invalid date of death", Trim: true, ISO8601: true}
)

// NewAuthorDraft sanitizes form into a draft for the author with the given
// id (0 for a new author) and records any failed checks on v.
func NewAuthorDraft(v *validator.Validator, id int64, form dto.AuthorForm) *AuthorDraft {
	draft := &AuthorDraft{
		ID:          id,
		FirstName:   v.Apply(authorFirstNameRule, form.FirstName),
		FamilyName:  v.Apply(authorFamilyNameRule, form.FamilyName),
		DateOfBirth: v.Apply(authorBirthRule, form.DateOfBirth),
		DateOfDeath: v.Apply(authorDeathRule, form.DateOfDeath),
	}
	if !v.Has("date_of_birth") && !v.Has("date_of_death") && draft.DateOfBirth != "" && draft.DateOfDeath != "" {
		birth, _ := validator.ParseDate(draft.DateOfBirth)
		death, _ := validator.ParseDate(draft.DateOfDeath)
		v.Check(!death.Before(birth), "date_of_death", "Date of death must not be before date of birth")
	}
	return draft
}

// Author builds the entity from a draft that passed validation.
func (d *AuthorDraft) Author() *Author {
	return &Author{
		ID:          d.ID,
		FirstName:   d.FirstName,
		FamilyName:  d.FamilyName,
		DateOfBirth: optionalDate(d.DateOfBirth),
		DateOfDeath: optionalDate(d.DateOfDeath),
	}
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := validator.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}
