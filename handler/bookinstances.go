package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/service"
)

// ListBookInstances godoc
// @Summary List all book copies
// @Description This endpoint lists every copy with the title of its book
// @Tags bookinstances
// @Produce json
// @Success 200 {array} data.BookInstance
// @Failure 500
// @Router /catalog/bookinstances [get]
func (h *Handler) listBookInstancesHandler(w http.ResponseWriter, r *http.Request) {
	instances, err := h.service.ListBookInstances(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "bookinstance_list", envelope{"title": "Book Instance List", "bookinstance_list": instances})
}

// ShowBookInstance godoc
// @Summary Show details of a book copy
// @Tags bookinstances
// @Produce json
// @Param id path int true "ID of copy to show"
// @Success 200 {object} data.BookInstance
// @Failure 404
// @Failure 500
// @Router /catalog/bookinstance/{id} [get]
func (h *Handler) showBookInstanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	instance, err := h.service.GetBookInstance(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "bookinstance_detail", envelope{
		"title":        "Copy: " + bookTitle(instance),
		"bookinstance": instance,
	})
}

func bookTitle(instance *data.BookInstance) string {
	if instance.Book == nil {
		return ""
	}
	return instance.Book.Title
}

// renderBookInstanceForm renders the copy form with the books to choose from.
func (h *Handler) renderBookInstanceForm(w http.ResponseWriter, r *http.Request, status int, title string, instance any, selected string, errs any) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	env := envelope{
		"title":         title,
		"book_list":     books,
		"selected_book": selected,
		"statuses":      data.BookInstanceStatuses,
	}
	if instance != nil {
		env["bookinstance"] = instance
	}
	if errs != nil {
		env["errors"] = errs
	}
	h.render(w, r, status, "bookinstance_form", env)
}

func (h *Handler) createBookInstanceFormHandler(w http.ResponseWriter, r *http.Request) {
	h.renderBookInstanceForm(w, r, http.StatusOK, "Create BookInstance", nil, r.URL.Query().Get("book"), nil)
}

// CreateBookInstance godoc
// @Summary Create a book copy
// @Tags bookinstances
// @Accept x-www-form-urlencoded
// @Produce json
// @Param book formData int true "Book ID"
// @Param imprint formData string true "Imprint"
// @Param status formData string false "Available, Maintenance, Loaned or Reserved"
// @Param due_back formData string false "Due back (ISO 8601)"
// @Success 303
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /catalog/bookinstances/create [post]
func (h *Handler) createBookInstanceHandler(w http.ResponseWriter, r *http.Request) {
	values, err := h.readForm(w, r)
	if err != nil {
		h.formErrorResponse(w, r, err)
		return
	}
	instance, err := h.service.CreateBookInstance(r.Context(), bookInstanceForm(values))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderBookInstanceForm(w, r, http.StatusUnprocessableEntity, "Create BookInstance", verr.Draft, values.Get("book"), verr.Errors)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, instance.URL())
}

func (h *Handler) updateBookInstanceFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	instance, err := h.service.GetBookInstance(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.renderBookInstanceForm(w, r, http.StatusOK, "Update BookInstance", instance, formatID(instance.BookID), nil)
}

// UpdateBookInstance godoc
// @Summary Update a book copy
// @Tags bookinstances
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "ID of copy to update"
// @Param book formData int true "Book ID"
// @Param imprint formData string true "Imprint"
// @Param status formData string false "Available, Maintenance, Loaned or Reserved"
// @Param due_back formData string false "Due back (ISO 8601)"
// @Success 303
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /catalog/bookinstance/{id}/update [post]
func (h *Handler) updateBookInstanceHandler(w http.ResponseWriter, r *http.Request) {
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
	instance, err := h.service.UpdateBookInstance(r.Context(), id, bookInstanceForm(values))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderBookInstanceForm(w, r, http.StatusUnprocessableEntity, "Update BookInstance", verr.Draft, values.Get("book"), verr.Errors)
		default:
			h.serviceErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, instance.URL())
}

func (h *Handler) deleteBookInstanceFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	instance, err := h.service.GetBookInstance(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.redirect(w, r, "/catalog/bookinstances")
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.render(w, r, http.StatusOK, "bookinstance_delete", envelope{
		"title":        "Delete BookInstance",
		"bookinstance": instance,
	})
}

// DeleteBookInstance godoc
// @Summary Delete a book copy
// @Tags bookinstances
// @Produce json
// @Param id path int true "ID of copy to delete"
// @Success 303
// @Failure 404
// @Failure 500
// @Router /catalog/bookinstance/{id}/delete [post]
func (h *Handler) deleteBookInstanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteBookInstance(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, "/catalog/bookinstances")
}
