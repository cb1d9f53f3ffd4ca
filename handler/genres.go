package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/locallibrary/service"
)

// ListGenres godoc
// @Summary List all genres
// @Description This endpoint lists every genre sorted by name
// @Tags genres
// @Produce json
// @Success 200 {array} data.Genre
// @Failure 500
// @Router /catalog/genres [get]
func (h *Handler) listGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.ListGenres(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "genre_list", envelope{"title": "Genre List", "genre_list": genres})
}

// ShowGenre godoc
// @Summary Show details of a genre
// @Description This endpoint shows a genre and the books filed under it
// @Tags genres
// @Produce json
// @Param id path int true "ID of genre to show"
// @Success 200 {object} data.GenreDetail
// @Failure 404
// @Failure 500
// @Router /catalog/genre/{id} [get]
func (h *Handler) showGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	detail, err := h.service.GetGenreDetail(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "genre_detail", envelope{
		"title":       "Genre Detail",
		"genre":       detail.Genre,
		"genre_books": detail.Books,
	})
}

func (h *Handler) createGenreFormHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "genre_form", envelope{"title": "Create Genre"})
}

// CreateGenre godoc
// @Summary Create a genre
// @Description Creates a genre, or redirects to the genre that already has the name
// @Tags genres
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Genre name (3 to 100 characters)"
// @Success 303
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /catalog/genres/create [post]
func (h *Handler) createGenreHandler(w http.ResponseWriter, r *http.Request) {
	values, err := h.readForm(w, r)
	if err != nil {
		h.formErrorResponse(w, r, err)
		return
	}
	genre, err := h.service.CreateGenre(r.Context(), genreForm(values))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(w, r, http.StatusUnprocessableEntity, "genre_form", envelope{
				"title":  "Create Genre",
				"genre":  verr.Draft,
				"errors": verr.Errors,
			})
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, genre.URL())
}

func (h *Handler) updateGenreFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	genre, err := h.service.GetGenre(r.Context(), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "genre_form", envelope{"title": "Update Genre", "genre": genre})
}

// UpdateGenre godoc
// @Summary Update a genre
// @Description Replaces the name of a genre, keeping its id
// @Tags genres
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "ID of genre to update"
// @Param name formData string true "Genre name (3 to 100 characters)"
// @Success 303
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /catalog/genre/{id}/update [post]
func (h *Handler) updateGenreHandler(w http.ResponseWriter, r *http.Request) {
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
	genre, err := h.service.UpdateGenre(r.Context(), id, genreForm(values))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(w, r, http.StatusUnprocessableEntity, "genre_form", envelope{
				"title":  "Update Genre",
				"genre":  verr.Draft,
				"errors": verr.Errors,
			})
		default:
			h.serviceErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, genre.URL())
}

func (h *Handler) deleteGenreFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	detail, err := h.service.GetGenreDetail(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.redirect(w, r, "/catalog/genres")
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.render(w, r, http.StatusOK, "genre_delete", envelope{
		"title":       "Delete Genre",
		"genre":       detail.Genre,
		"genre_books": detail.Books,
	})
}

// DeleteGenre godoc
// @Summary Delete a genre
// @Description Deletes a genre no book is filed under. Otherwise the confirmation view lists the books.
// @Tags genres
// @Produce json
// @Param id path int true "ID of genre to delete"
// @Success 303
// @Success 200 {object} data.GenreDetail
// @Failure 404
// @Failure 500
// @Router /catalog/genre/{id}/delete [post]
func (h *Handler) deleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.readIDParam(r)
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteGenre(r.Context(), id)
	if err != nil {
		var derr *service.DependencyError
		switch {
		case errors.As(err, &derr):
			h.render(w, r, http.StatusOK, "genre_delete", envelope{
				"title":       "Delete Genre",
				"genre":       derr.Entity,
				"genre_books": derr.Dependents,
			})
		default:
			h.serviceErrorResponse(w, r, err)
		}
		return
	}
	h.invalidateSummary()
	h.redirect(w, r, "/catalog/genres")
}
