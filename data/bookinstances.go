package data

import (
	"fmt"
	"time"

	"github.com/emzola/locallibrary/data/dto"
	"github.com/emzola/locallibrary/internal/validator"
)

// Statuses a book copy can be in.
const (
	StatusAvailable   = "Available"
	StatusMaintenance = "Maintenance"
	StatusLoaned      = "Loaned"
	StatusReserved    = "Reserved"
)

// BookInstanceStatuses lists the permitted copy statuses in display order.
var BookInstanceStatuses = []string{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}

// BookInstance defines a physical copy of a book. Book is resolved (id and
// title) on reads.
type BookInstance struct {
	ID      int64      `json:"id"`
	BookID  int64      `json:"book_id"`
	Book    *Book      `json:"book,omitempty"`
	Imprint string     `json:"imprint"`
	Status  string     `json:"status"`
	DueBack *time.Time `json:"due_back,omitempty"`
	Version int32      `json:"-"`
}

// URL returns the canonical location of the copy.
func (bi *BookInstance) URL() string {
	return fmt.Sprintf("/catalog/bookinstance/%d", bi.ID)
}

// DueBackFormatted returns the due date for display, or "" when unset.
func (bi *BookInstance) DueBackFormatted() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format("Jan 2, 2006")
}

func (bi BookInstance) MarshalJSON() ([]byte, error) {
	type bookInstance struct {
		ID               int64      `json:"id"`
		BookID           int64      `json:"book_id"`
		Book             *Book      `json:"book,omitempty"`
		Imprint          string     `json:"imprint"`
		Status           string     `json:"status"`
		DueBack          *time.Time `json:"due_back,omitempty"`
		DueBackFormatted string     `json:"due_back_formatted,omitempty"`
	}
	return withURL(bookInstance{
		ID:               bi.ID,
		BookID:           bi.BookID,
		Book:             bi.Book,
		Imprint:          bi.Imprint,
		Status:           bi.Status,
		DueBack:          bi.DueBack,
		DueBackFormatted: bi.DueBackFormatted(),
	}, bi.URL())
}

// BookInstanceDraft is sanitized copy input that may still be invalid.
type BookInstanceDraft struct {
	ID      int64  `json:"id,omitempty"`
	Book    string `json:"book"`
	Imprint string `json:"imprint"`
	Status  string `json:"status"`
	DueBack string `json:"due_back,omitempty"`
}

var (
	bookInstanceBookRule    = validator.Rule{Field: "book", Message: "Book must be specified", Trim: true, Escape: true, Required: true}
	bookInstanceImprintRule = validator.Rule{Field: "imprint", Message: "Imprint must be specified", Trim: true, Escape: true, Required: true, MaxLen: 200}
	bookInstanceStatusRule  = validator.Rule{Field: "status", Message: "Select a status", Trim: true, Escape: true, Default: StatusMaintenance, In: BookInstanceStatuses}
	bookInstanceDueBackRule = validator.Rule{Field: "due_back", Message: "Invalid date", Trim: true, ISO8601: true}
)

// NewBookInstanceDraft sanitizes form into a draft for the copy with the
// given id (0 for a new copy) and records any failed checks on v.
func NewBookInstanceDraft(v *validator.Validator, id int64, form dto.BookInstanceForm) *BookInstanceDraft {
	draft := &BookInstanceDraft{
		ID:      id,
		Book:    v.Apply(bookInstanceBookRule, form.Book),
		Imprint: v.Apply(bookInstanceImprintRule, form.Imprint),
		Status:  v.Apply(bookInstanceStatusRule, form.Status),
		DueBack: v.Apply(bookInstanceDueBackRule, form.DueBack),
	}
	if !v.Has("book") {
		_, ok := parseID(draft.Book)
		v.Check(ok, "book", "Book must be specified")
	}
	return draft
}

// BookID returns the referenced book id, or 0 when it is not a valid id.
func (d *BookInstanceDraft) BookID() int64 {
	id, _ := parseID(d.Book)
	return id
}

// BookInstance builds the entity from a draft that passed validation.
func (d *BookInstanceDraft) BookInstance() *BookInstance {
	return &BookInstance{
		ID:      d.ID,
		BookID:  d.BookID(),
		Imprint: d.Imprint,
		Status:  d.Status,
		DueBack: optionalDate(d.DueBack),
	}
}
