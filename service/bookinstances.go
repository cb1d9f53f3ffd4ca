package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
	"github.com/emzola/locallibrary/repository"
)

type bookInstances interface {
	ListBookInstances(ctx context.Context) ([]*data.BookInstance, error)
	GetBookInstance(ctx context.Context, id int64) (*data.BookInstance, error)
	CreateBookInstance(ctx context.Context, form dto.BookInstanceForm) (*data.BookInstance, error)
	UpdateBookInstance(ctx context.Context, id int64, form dto.BookInstanceForm) (*data.BookInstance, error)
	DeleteBookInstance(ctx context.Context, id int64) error
}

// ListBookInstances service retrieves every copy sorted by book title.
func (s *service) ListBookInstances(ctx context.Context) ([]*data.BookInstance, error) {
	return s.repo.GetAllBookInstances(ctx)
}

// GetBookInstance service retrieves a copy with its book's title.
func (s *service) GetBookInstance(ctx context.Context, id int64) (*data.BookInstance, error) {
	instance, err := s.repo.GetBookInstance(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return instance, nil
}

// validateBookInstance runs the field rules and then checks that the book
// exists, returning the book for use by the caller.
func (s *service) validateBookInstance(ctx context.Context, id int64, form dto.BookInstanceForm) (*data.BookInstanceDraft, *data.Book, error) {
	v := validator.New()
	draft := data.NewBookInstanceDraft(v, id, form)
	var book *data.Book
	if !v.Has("book") {
		var err error
		book, err = s.repo.GetBook(ctx, draft.BookID())
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("book", "Book not found")
		case err != nil:
			return nil, nil, err
		}
	}
	if !v.Valid() {
		return nil, nil, newValidationError(draft, v)
	}
	return draft, book, nil
}

func bookNotFound(draft *data.BookInstanceDraft) error {
	v := validator.New()
	v.AddError("book", "Book not found")
	return newValidationError(draft, v)
}

// CreateBookInstance service creates a copy of an existing book.
func (s *service) CreateBookInstance(ctx context.Context, form dto.BookInstanceForm) (*data.BookInstance, error) {
	draft, book, err := s.validateBookInstance(ctx, 0, form)
	if err != nil {
		return nil, err
	}
	instance := draft.BookInstance()
	err = s.repo.CreateBookInstance(ctx, instance)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, bookNotFound(draft)
		default:
			return nil, err
		}
	}
	instance.Book = book
	if instance.Status == data.StatusLoaned {
		s.sendLoanNotice(instance)
	}
	return instance, nil
}

// UpdateBookInstance service replaces the fields of an existing copy.
func (s *service) UpdateBookInstance(ctx context.Context, id int64, form dto.BookInstanceForm) (*data.BookInstance, error) {
	draft, book, err := s.validateBookInstance(ctx, id, form)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetBookInstance(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	instance := draft.BookInstance()
	instance.Version = current.Version
	err = s.repo.UpdateBookInstance(ctx, instance)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, bookNotFound(draft)
		default:
			return nil, repoError(err)
		}
	}
	instance.Book = book
	if instance.Status == data.StatusLoaned && current.Status != data.StatusLoaned {
		s.sendLoanNotice(instance)
	}
	return instance, nil
}

// DeleteBookInstance service deletes a copy. Nothing depends on copies.
func (s *service) DeleteBookInstance(ctx context.Context, id int64) error {
	err := s.repo.DeleteBookInstance(ctx, id)
	if err != nil {
		return repoError(err)
	}
	return nil
}

// sendLoanNotice mails the configured circulation desk in the background
// when a copy goes out on loan. Failures are logged and otherwise ignored.
func (s *service) sendLoanNotice(instance *data.BookInstance) {
	recipient := s.config.Smtp.Notify
	if recipient == "" || s.mailer == nil {
		return
	}
	notice := map[string]any{
		"bookInstanceID": instance.ID,
		"imprint":        instance.Imprint,
		"dueBack":        instance.DueBackFormatted(),
		"url":            instance.URL(),
	}
	if instance.Book != nil {
		notice["bookTitle"] = instance.Book.Title
	}
	s.background(func() {
		err := s.mailer.Send(recipient, "loan_notice.tmpl", notice)
		if err != nil {
			s.logger.PrintError(err, map[string]string{
				"book_instance_id": strconv.FormatInt(instance.ID, 10),
			})
		}
	})
}
