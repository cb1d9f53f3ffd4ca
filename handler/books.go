package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/locallibrary/service"
)

// maxCoverBytes bounds a cover upload request.
const maxCoverBytes = 5 << 20

// ListBooks godoc
// @Summary List all books
// @Description This endpoint lists every book sorted by title, with its author
// @Tags books
// @Produce json
// @Success 200 {array} data.Book
// @Failure 500
// @Router /catalog/books [get]
func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "book_list", envelope{"title": "Book List", "book_list": books})
}

// ShowBook godoc
// @Summary Show details of a book
// @Description This endpoint shows a book with its genres and copies
// @Tags books
// @Produce json
// @Param id path int true "ID of book to show"
// @Success 200 {object} data.BookDetail
// @Failure 404
// @Failure 500
// @Router /catalog/book/{id} [get]
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	detail, err := h.service.GetBookDetail(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "book_detail", envelope{
		"title":          detail.Book.Title,
		"book":           detail.Book,
		"genres":         detail.Genres,
		"book_instances": detail.Instances,
	})
}

// renderBookForm renders the book form with the author and genre choices.
func (h *Handler) renderBookForm(w http.ResponseWriter, r *http.Request, status int, title string, book any, errs any) {
	options, err := h.service.BookFormOptions(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	env := envelope{
		"title":   title,
		"authors": options.Authors,
		"genres":  options.Genres,
	}
	if book != nil {
		env["book"] = book
	}
	if errs != nil {
		env["errors"] = errs
	}
	h.render(w, r, status, "book_form", env)
}

// CreateBookForm godoc
// @Summary Show the book form
// @Description Lists the authors and genres to choose from. With an isbn query parameter the form is prefilled from Open Library.
// @Tags books
// @Produce json
// @Param isbn query string false "ISBN to look up"
// @Success 200
// @Failure 500
// @Router /catalog/books/create [get]
func (h *Handler) createBookFormHandler(w http.ResponseWriter, r *http.Request) {
	isbn := r.URL.Query().Get("isbn")
	if isbn == "" {
		h.renderBookForm(w, r, http.StatusOK, "Create Book", nil, nil)
		return
	}
	prefill, err := h.service.LookupISBN(r.Context(), isbn)
	if err != nil {
		h.logger.PrintInfo("isbn lookup failed", map[string]string{
			"isbn":  isbn,
			"error": err.Error(),
		})
		h.renderBookForm(w, r, http.StatusOK, "Create Book", nil, nil)
		return
	}
	h.renderBookForm(w, r, http.StatusOK, "Create Book", prefill, nil)
}

// CreateBook godoc
// @Summary Create a book
// @Tags books
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Title"
// @Param author formData int true "Author ID"
// @Param summary formData string true "Summary"
// @Param isbn formData string true "ISBN"
// @Param genre formData []int false "Genre IDs" collectionFormat(multi)
// @Success 303
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /catalog/books/create [post]
func (h *Handler) createBookHandler(w http.ResponseWriter, r *http.Request) {
	values, err := h.readForm(w, r)
	if err != nil {
		h.formErrorResponse(w, r, err)
		return
	}
	book, err := h.service.CreateBook(r.Context(), bookForm(values))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderBookForm(w, r, http.StatusUnprocessableEntity, "Create Book", verr.Draft, verr.Errors)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, book.URL())
}

func (h *Handler) updateBookFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.renderBookForm(w, r, http.StatusOK, "Update Book", book, nil)
}

// UpdateBook godoc
// @Summary Update a book
// @Description Replaces the fields and genres of a book. The cover is kept.
// @Tags books
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "ID of book to update"
// @Param title formData string true "Title"
// @Param author formData int true "Author ID"
// @Param summary formData string true "Summary"
// @Param isbn formData string true "ISBN"
// @Param genre formData []int false "Genre IDs" collectionFormat(multi)
// @Success 303
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /catalog/book/{id}/update [post]
func (h *Handler) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	values, err := h.readForm(w, r)
	if err != nil {
		h.formErrorResponse(w, r, err)
		return
	}
	book, err := h.service.UpdateBook(r.Context(), id, bookForm(values))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderBookForm(w, r, http.StatusUnprocessableEntity, "Update Book", verr.Draft, verr.Errors)
		default:
			h.serviceErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, book.URL())
}

func (h *Handler) deleteBookFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	detail, err := h.service.GetBookDetail(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.redirect(w, r, "/catalog/books")
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.render(w, r, http.StatusOK, "book_delete", envelope{
		"title":          "Delete Book",
		"book":           detail.Book,
		"book_instances": detail.Instances,
	})
}

// DeleteBook godoc
// @Summary Delete a book
// @Description Deletes a book with no copies. Otherwise the confirmation view lists the copies.
// @Tags books
// @Produce json
// @Param id path int true "ID of book to delete"
// @Success 303
// @Success 200 {object} data.BookDetail
// @Failure 404
// @Failure 500
// @Router /catalog/book/{id}/delete [post]
func (h *Handler) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteBook(r.Context(), id)
	if err != nil {
		var derr *service.DependencyError
		switch {
		case errors.As(err, &derr):
			h.render(w, r, http.StatusOK, "book_delete", envelope{
				"title":          "Delete Book",
				"book":           derr.Entity,
				"book_instances": derr.Dependents,
			})
		default:
			h.serviceErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, "/catalog/books")
}

// UpdateBookCover godoc
// @Summary Upload a book cover
// @Description Stores a JPEG or PNG cover for the book and redirects to it
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID of book"
// @Param cover formData file true "Cover image"
// @Success 303
// @Failure 400
// @Failure 404
// @Failure 413
// @Failure 415
// @Failure 503
// @Router /catalog/book/{id}/cover [post]
func (h *Handler) updateBookCoverHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxCoverBytes)
	err = r.ParseMultipartForm(maxCoverBytes)
	if err != nil {
		h.formErrorResponse(w, r, err)
		return
	}
	file, header, err := r.FormFile("cover")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()
	book, err := h.service.UpdateBookCover(r.Context(), id, service.CoverUpload{File: file, Header: header})
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.redirect(w, r, book.URL())
}
