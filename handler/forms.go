package handler

import (
	"net/url"

	"github.com/emzola/locallibrary/data/dto"
)

func genreForm(values url.Values) dto.GenreForm {
	return dto.GenreForm{Name: values.Get("name")}
}

func authorForm(values url.Values) dto.AuthorForm {
	return dto.AuthorForm{
		FirstName:   values.Get("first_name"),
		FamilyName:  values.Get("family_name"),
		DateOfBirth: values.Get("date_of_birth"),
		DateOfDeath: values.Get("date_of_death"),
	}
}

func bookForm(values url.Values) dto.BookForm {
	return dto.BookForm{
		Title:   values.Get("title"),
		Author:  values.Get("author"),
		Summary: values.Get("summary"),
		ISBN:    values.Get("isbn"),
		Genre:   values["genre"],
	}
}

func bookInstanceForm(values url.Values) dto.BookInstanceForm {
	return dto.BookInstanceForm{
		Book:    values.Get("book"),
		Imprint: values.Get("imprint"),
		Status:  values.Get("status"),
		DueBack: values.Get("due_back"),
	}
}
