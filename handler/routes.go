package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Routes registers the catalog routes on an httprouter and wraps them in
// the middleware chain.
func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/", h.homeHandler)
	router.HandlerFunc(http.MethodGet, "/catalog", h.indexHandler)

	router.HandlerFunc(http.MethodGet, "/catalog/genres", h.listGenresHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/genres/create", h.createGenreFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/genres/create", h.createGenreHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/genre/:id", h.showGenreHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/genre/:id/update", h.updateGenreFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/genre/:id/update", h.updateGenreHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/genre/:id/delete", h.deleteGenreFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/genre/:id/delete", h.deleteGenreHandler)

	router.HandlerFunc(http.MethodGet, "/catalog/authors", h.listAuthorsHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/authors/create", h.createAuthorFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/authors/create", h.createAuthorHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/author/:id", h.showAuthorHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/author/:id/update", h.updateAuthorFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/author/:id/update", h.updateAuthorHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/author/:id/delete", h.deleteAuthorFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/author/:id/delete", h.deleteAuthorHandler)

	router.HandlerFunc(http.MethodGet, "/catalog/books", h.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/books/create", h.createBookFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/books/create", h.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/book/:id", h.showBookHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/book/:id/update", h.updateBookFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/book/:id/update", h.updateBookHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/book/:id/delete", h.deleteBookFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/book/:id/delete", h.deleteBookHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/book/:id/cover", h.updateBookCoverHandler)

	router.HandlerFunc(http.MethodGet, "/catalog/bookinstances", h.listBookInstancesHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/bookinstances/create", h.createBookInstanceFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/bookinstances/create", h.createBookInstanceHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/bookinstance/:id", h.showBookInstanceHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/bookinstance/:id/update", h.updateBookInstanceFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/bookinstance/:id/update", h.updateBookInstanceHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/bookinstance/:id/delete", h.deleteBookInstanceFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/bookinstance/:id/delete", h.deleteBookInstanceHandler)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.recoverPanic(h.requestID(h.metrics(h.enableCORS(h.rateLimit(router)))))
}
