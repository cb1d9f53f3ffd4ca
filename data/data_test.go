package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
)

func TestGenreDraft(t *testing.T) {
	t.Run("Keeps id and sanitizes", func(t *testing.T) {
		v := validator.New()
		draft := NewGenreDraft(v, 7, dto.GenreForm{Name: "  Rock & Roll "})
		if !v.Valid() {
			t.Fatalf("unexpected errors %v", v.Errors)
		}
		genre := draft.Genre()
		if genre.ID != 7 || genre.Name != "Rock &amp; Roll" {
			t.Errorf("unexpected genre %+v", genre)
		}
	})

	t.Run("Too short", func(t *testing.T) {
		v := validator.New()
		draft := NewGenreDraft(v, 0, dto.GenreForm{Name: " ab "})
		if got := v.Errors["name"]; got != "Genre name must be between 3 and 100 characters" {
			t.Errorf("unexpected message %q", got)
		}
		if draft.Name != "ab" {
			t.Errorf("expected trimmed draft name; got %q", draft.Name)
		}
	})
}

func TestAuthorDraft(t *testing.T) {
	v := validator.New()
	NewAuthorDraft(v, 0, dto.AuthorForm{FirstName: "Iain", FamilyName: "Banks", DateOfBirth: "1954-02-16", DateOfDeath: "1950-01-01"})
	if _, ok := v.Errors["date_of_death"]; !ok {
		t.Errorf("expected date of death error; got %v", v.Errors)
	}

	v = validator.New()
	author := NewAuthorDraft(v, 3, dto.AuthorForm{FirstName: "Iain", FamilyName: "Banks", DateOfBirth: "1954-02-16"}).Author()
	if !v.Valid() {
		t.Fatalf("unexpected errors %v", v.Errors)
	}
	if author.Name() != "Banks, Iain" || author.Lifespan() != "1954 - " {
		t.Errorf("unexpected author %q %q", author.Name(), author.Lifespan())
	}
}

func TestBookDraft(t *testing.T) {
	v := validator.New()
	draft := NewBookDraft(v, 0, dto.BookForm{
		Title:   "The Wasp Factory",
		Author:  "3",
		Summary: "A summary",
		ISBN:    "9780349101774",
		Genre:   []string{"1", "2", ""},
	})
	if !v.Valid() {
		t.Fatalf("unexpected errors %v", v.Errors)
	}
	book := draft.Book()
	if book.AuthorID != 3 || len(book.GenreIDs) != 2 {
		t.Errorf("unexpected book %+v", book)
	}

	v = validator.New()
	NewBookDraft(v, 0, dto.BookForm{Title: "T", Author: "abc", Summary: "S", ISBN: "1", Genre: []string{"1", "1"}})
	if v.Errors["author"] != "Author must not be empty." {
		t.Errorf("unexpected author error %q", v.Errors["author"])
	}
	if _, ok := v.Errors["genre"]; !ok {
		t.Error("expected duplicate genre error")
	}
}

func TestBookInstanceDraft(t *testing.T) {
	v := validator.New()
	draft := NewBookInstanceDraft(v, 0, dto.BookInstanceForm{Book: "", Imprint: " Penguin ", DueBack: "not-a-date"})
	list := v.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 errors; got %+v", list)
	}
	if list[0].Field != "book" || list[1].Field != "due_back" {
		t.Errorf("unexpected error order %+v", list)
	}
	if draft.Imprint != "Penguin" || draft.Status != StatusMaintenance {
		t.Errorf("unexpected draft %+v", draft)
	}
}

func TestMarshalURL(t *testing.T) {
	due := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	body, err := json.Marshal(&BookInstance{ID: 4, BookID: 2, Imprint: "Penguin", Status: StatusLoaned, DueBack: &due})
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["url"] != "/catalog/bookinstance/4" {
		t.Errorf("unexpected url %v", got["url"])
	}
	if got["due_back_formatted"] != "Mar 1, 2024" {
		t.Errorf("unexpected due_back_formatted %v", got["due_back_formatted"])
	}
	if _, ok := got["Version"]; ok {
		t.Error("version must not be serialized")
	}
}
