package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/locallibrary/service"
)

// ListAuthors godoc
// @Summary List all authors
// @Description This endpoint lists every author sorted by family name
// @Tags authors
// @Produce json
// @Success 200 {array} data.Author
// @Failure 500
// @Router /catalog/authors [get]
func (h *Handler) listAuthorsHandler(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.ListAuthors(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "author_list", envelope{"title": "Author List", "author_list": authors})
}

// ShowAuthor godoc
// @Summary Show details of an author
// @Description This endpoint shows an author and their books
// @Tags authors
// @Produce json
// @Param id path int true "ID of author to show"
// @Success 200 {object} data.AuthorDetail
// @Failure 404
// @Failure 500
// @Router /catalog/author/{id} [get]
func (h *Handler) showAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	detail, err := h.service.GetAuthorDetail(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "author_detail", envelope{
		"title":        "Author Detail",
		"author":       detail.Author,
		"author_books": detail.Books,
	})
}

func (h *Handler) createAuthorFormHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "author_form", envelope{"title": "Create Author"})
}

// CreateAuthor godoc
// @Summary Create an author
// @Tags authors
// @Accept x-www-form-urlencoded
// @Produce json
// @Param first_name formData string true "First name"
// @Param family_name formData string true "Family name"
// @Param date_of_birth formData string false "Date of birth (ISO 8601)"
// @Param date_of_death formData string false "Date of death (ISO 8601)"
// @Success 303
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /catalog/authors/create [post]
func (h *Handler) createAuthorHandler(w http.ResponseWriter, r *http.Request) {
	values, err := h.readForm(w, r)
	if err != nil {
		h.formErrorResponse(w, r, err)
		return
	}
	author, err := h.service.CreateAuthor(r.Context(), authorForm(values))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(w, r, http.StatusUnprocessableEntity, "author_form", envelope{
				"title":  "Create Author",
				"author": verr.Draft,
				"errors": verr.Errors,
			})
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, author.URL())
}

func (h *Handler) updateAuthorFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	author, err := h.service.GetAuthor(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "author_form", envelope{"title": "Update Author", "author": author})
}

// UpdateAuthor godoc
// @Summary Update an author
// @Tags authors
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "ID of author to update"
// @Param first_name formData string true "First name"
// @Param family_name formData string true "Family name"
// @Param date_of_birth formData string false "Date of birth (ISO 8601)"
// @Param date_of_death formData string false "Date of death (ISO 8601)"
// @Success 303
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /catalog/author/{id}/update [post]
func (h *Handler) updateAuthorHandler(w http.ResponseWriter, r *http.Request) {
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
	author, err := h.service.UpdateAuthor(r.Context(), id, authorForm(values))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(w, r, http.StatusUnprocessableEntity, "author_form", envelope{
				"title":  "Update Author",
				"author": verr.Draft,
				"errors": verr.Errors,
			})
		default:
			h.serviceErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, author.URL())
}

func (h *Handler) deleteAuthorFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	detail, err := h.service.GetAuthorDetail(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.redirect(w, r, "/catalog/authors")
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.render(w, r, http.StatusOK, "author_delete", envelope{
		"title":        "Delete Author",
		"author":       detail.Author,
		"author_books": detail.Books,
	})
}

// DeleteAuthor godoc
// @Summary Delete an author
// @Description Deletes an author with no books. Otherwise the confirmation view lists the books.
// @Tags authors
// @Produce json
// @Param id path int true "ID of author to delete"
// @Success 303
// @Success 200 {object} data.AuthorDetail
// @Failure 404
// @Failure 500
// @Router /catalog/author/{id}/delete [post]
func (h *Handler) deleteAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteAuthor(r.Context(), id)
	if err != nil {
		var derr *service.DependencyError
		switch {
		case errors.As(err, &derr):
			h.render(w, r, http.StatusOK, "author_delete", envelope{
				"title":        "Delete Author",
				"author":       derr.Entity,
				"author_books": derr.Dependents,
			})
		default:
			h.serviceErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, "/catalog/authors")
}
