package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emzola/locallibrary/config"
	"github.com/emzola/locallibrary/data"
	_ "github.com/emzola/locallibrary/docs"
	"github.com/emzola/locallibrary/internal/jsonlog"
	"github.com/emzola/locallibrary/repository/memory"
	"github.com/emzola/locallibrary/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	routes http.Handler
	store  *memory.Store
}

func newTestApp(t *testing.T, cfg config.Config) *testApp {
	t.Helper()
	store := memory.New()
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	svc := service.New(cfg, &sync.WaitGroup{}, logger, store, nil, nil, http.DefaultClient)
	cache := ttlcache.New[string, *data.CatalogSummary]()
	h := New(cfg, logger, cache, svc, nil)
	return &testApp{routes: h.Routes(), store: store}
}

func (a *testApp) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	a.routes.ServeHTTP(rr, req)
	var body map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func (a *testApp) get(t *testing.T, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return a.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (a *testApp) postForm(t *testing.T, target string, form url.Values) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

// seed stores an author, a genre and a book filed under that genre.
func (a *testApp) seed(t *testing.T) (*data.Author, *data.Genre, *data.Book) {
	t.Helper()
	ctx := context.Background()
	author := &data.Author{FirstName: "Frank", FamilyName: "Herbert"}
	require.NoError(t, a.store.CreateAuthor(ctx, author))
	genre := &data.Genre{Name: "Science Fiction"}
	require.NoError(t, a.store.CreateGenre(ctx, genre))
	book := &data.Book{Title: "Dune", AuthorID: author.ID, Summary: "Spice", ISBN: "9780441013593", GenreIDs: []int64{genre.ID}}
	require.NoError(t, a.store.CreateBook(ctx, book))
	return author, genre, book
}

func TestCreateBookInstanceHandler(t *testing.T) {
	t.Run("Invalid form is rendered again", func(t *testing.T) {
		app := newTestApp(t, config.Config{})
		app.seed(t)
		rr, body := app.postForm(t, "/catalog/bookinstances/create", url.Values{
			"book":     {""},
			"imprint":  {"Penguin"},
			"due_back": {"not-a-date"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "bookinstance_form", body["view"])
		assert.Equal(t, "Create BookInstance", body["title"])

		errs := body["errors"].([]any)
		require.Len(t, errs, 2)
		assert.Equal(t, "book", errs[0].(map[string]any)["field"])
		assert.Equal(t, "Book must be specified", errs[0].(map[string]any)["message"])
		assert.Equal(t, "due_back", errs[1].(map[string]any)["field"])
		assert.Equal(t, "Penguin", body["bookinstance"].(map[string]any)["imprint"])
		assert.Len(t, body["book_list"], 1)

		n, err := app.store.CountBookInstances(context.Background(), "")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Valid form redirects to the copy", func(t *testing.T) {
		app := newTestApp(t, config.Config{})
		_, _, book := app.seed(t)
		rr, _ := app.postForm(t, "/catalog/bookinstances/create", url.Values{
			"book":    {strconv.FormatInt(book.ID, 10)},
			"imprint": {"Ace, 1990"},
			"status":  {data.StatusAvailable},
		})
		require.Equal(t, http.StatusSeeOther, rr.Code)
		location := rr.Header().Get("Location")
		assert.True(t, strings.HasPrefix(location, "/catalog/bookinstance/"))

		rr, body := app.get(t, location)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Copy: Dune", body["title"])
	})
}

func TestCreateGenreHandler(t *testing.T) {
	app := newTestApp(t, config.Config{})

	rr, _ := app.postForm(t, "/catalog/genres/create", url.Values{"name": {"Fantasy"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	first := rr.Header().Get("Location")

	rr, _ = app.postForm(t, "/catalog/genres/create", url.Values{"name": {"Fantasy"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, first, rr.Header().Get("Location"))

	genres, err := app.store.GetAllGenres(context.Background())
	require.NoError(t, err)
	assert.Len(t, genres, 1)

	rr, body := app.postForm(t, "/catalog/genres/create", url.Values{"name": {"ab"}})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "genre_form", body["view"])
}

func TestDeleteWithDependents(t *testing.T) {
	app := newTestApp(t, config.Config{})
	author, genre, book := app.seed(t)

	tests := []struct {
		name       string
		target     string
		view       string
		dependents string
	}{
		{"Genre", "/catalog/genre/" + strconv.FormatInt(genre.ID, 10) + "/delete", "genre_delete", "genre_books"},
		{"Author", "/catalog/author/" + strconv.FormatInt(author.ID, 10) + "/delete", "author_delete", "author_books"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := app.postForm(t, tt.target, url.Values{})
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.view, body["view"])
			assert.Len(t, body[tt.dependents], 1)
		})
	}

	t.Run("Book", func(t *testing.T) {
		instance := &data.BookInstance{BookID: book.ID, Imprint: "Ace", Status: data.StatusAvailable}
		require.NoError(t, app.store.CreateBookInstance(context.Background(), instance))
		rr, body := app.postForm(t, book.URL()+"/delete", url.Values{})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "book_delete", body["view"])
		assert.Len(t, body["book_instances"], 1)
	})
}

func TestDeleteGenreHandler(t *testing.T) {
	app := newTestApp(t, config.Config{})
	genre := &data.Genre{Name: "Poetry"}
	require.NoError(t, app.store.CreateGenre(context.Background(), genre))

	rr, _ := app.postForm(t, genre.URL()+"/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/catalog/genres", rr.Header().Get("Location"))

	rr, _ = app.postForm(t, genre.URL()+"/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t, config.Config{})
	for _, target := range []string{
		"/catalog/genre/99",
		"/catalog/author/99",
		"/catalog/book/99",
		"/catalog/bookinstance/99",
		"/catalog/genre/abc",
		"/catalog/book/0/update",
		"/catalog/shelves",
	} {
		t.Run(target, func(t *testing.T) {
			rr, _ := app.get(t, target)
			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}
}

func TestDeleteFormOfMissingRecord(t *testing.T) {
	app := newTestApp(t, config.Config{})
	tests := map[string]string{
		"/catalog/genre/7/delete":        "/catalog/genres",
		"/catalog/author/7/delete":       "/catalog/authors",
		"/catalog/book/7/delete":         "/catalog/books",
		"/catalog/bookinstance/7/delete": "/catalog/bookinstances",
	}
	for target, list := range tests {
		t.Run(target, func(t *testing.T) {
			rr, _ := app.get(t, target)
			require.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, list, rr.Header().Get("Location"))
		})
	}
}

func TestJSONBody(t *testing.T) {
	app := newTestApp(t, config.Config{})
	body := `{"first_name": "Ursula", "family_name": "Le Guin", "date_of_birth": "1929-10-21"}`
	req := httptest.NewRequest(http.MethodPost, "/catalog/authors/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr, _ := app.do(t, req)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr, doc := app.get(t, rr.Header().Get("Location"))
	require.Equal(t, http.StatusOK, rr.Code)
	author := doc["author"].(map[string]any)
	assert.Equal(t, "Le Guin, Ursula", author["name"])

	t.Run("Malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/catalog/authors/create", strings.NewReader(`{"first_name":`))
		req.Header.Set("Content-Type", "application/json")
		rr, _ := app.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateBookHandler(t *testing.T) {
	app := newTestApp(t, config.Config{})
	author, genre, book := app.seed(t)

	rr, body := app.get(t, book.URL()+"/update")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Update Book", body["title"])
	assert.Len(t, body["authors"], 1)
	assert.Len(t, body["genres"], 1)

	rr, _ = app.postForm(t, book.URL()+"/update", url.Values{
		"title":   {"Dune Messiah"},
		"author":  {strconv.FormatInt(author.ID, 10)},
		"summary": {"More spice"},
		"isbn":    {"9780593098233"},
		"genre":   {strconv.FormatInt(genre.ID, 10)},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, book.URL(), rr.Header().Get("Location"))

	updated, err := app.store.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
}

func TestUpdateBookCoverHandler(t *testing.T) {
	app := newTestApp(t, config.Config{})
	_, _, book := app.seed(t)

	upload := func(name string, content []byte) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("cover", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, book.URL()+"/cover", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	t.Run("Storage not configured", func(t *testing.T) {
		png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
		rr, _ := app.do(t, upload("dune.png", png))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("Not an image", func(t *testing.T) {
		rr, _ := app.do(t, upload("dune.txt", []byte("plain text cover")))
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})

	t.Run("Missing file", func(t *testing.T) {
		rr, _ := app.postForm(t, book.URL()+"/cover", url.Values{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestIndexHandler(t *testing.T) {
	var cfg config.Config
	cfg.Cache.SummaryTTL = time.Minute
	app := newTestApp(t, cfg)
	app.seed(t)

	rr, body := app.get(t, "/catalog")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "index", body["view"])
	assert.Equal(t, "Local Library Home", body["title"])
	assert.EqualValues(t, 1, body["data"].(map[string]any)["book_count"])

	// Writes outside the handlers are not seen until the cache is invalidated.
	require.NoError(t, app.store.CreateGenre(context.Background(), &data.Genre{Name: "Horror"}))
	_, body = app.get(t, "/catalog")
	assert.EqualValues(t, 1, body["data"].(map[string]any)["genre_count"])

	rr, _ = app.postForm(t, "/catalog/genres/create", url.Values{"name": {"Poetry"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	_, body = app.get(t, "/catalog")
	assert.EqualValues(t, 3, body["data"].(map[string]any)["genre_count"])

	rr, _ = app.get(t, "/")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/catalog", rr.Header().Get("Location"))
}

func TestHealthcheck(t *testing.T) {
	var cfg config.Config
	cfg.Server.Env = "testing"
	app := newTestApp(t, cfg)
	rr, body := app.get(t, "/v1/healthcheck")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, "testing", body["system_info"].(map[string]any)["environment"])
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestDebugVarsRequiresCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pa55word"), bcrypt.MinCost)
	require.NoError(t, err)
	var cfg config.Config
	cfg.BasicAuth.Username = "librarian"
	cfg.BasicAuth.PasswordHash = string(hash)
	app := newTestApp(t, cfg)

	tests := []struct {
		name     string
		user     string
		password string
		want     int
	}{
		{"Valid", "librarian", "pa55word", http.StatusOK},
		{"Wrong password", "librarian", "nope", http.StatusUnauthorized},
		{"Wrong user", "reader", "pa55word", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
			req.SetBasicAuth(tt.user, tt.password)
			rr := httptest.NewRecorder()
			app.routes.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}

	t.Run("No credentials", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.routes.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
	})
}

func TestSwaggerSpec(t *testing.T) {
	app := newTestApp(t, config.Config{})
	rr, body := app.get(t, "/spec")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2.0", body["swagger"])
	assert.Equal(t, "Local Library API", body["info"].(map[string]any)["title"])
}

func TestCreateBookFormPrefill(t *testing.T) {
	openLibrary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/isbn/0441013597.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"title": "Dune", "isbn_13": ["9780441013593"]}`)
	}))
	defer openLibrary.Close()

	var cfg config.Config
	cfg.OpenLibrary.URL = openLibrary.URL
	app := newTestApp(t, cfg)
	app.seed(t)

	rr, body := app.get(t, "/catalog/books/create?isbn=0441013597")
	require.Equal(t, http.StatusOK, rr.Code)
	book := body["book"].(map[string]any)
	assert.Equal(t, "Dune", book["title"])
	assert.Equal(t, "9780441013593", book["isbn"])
	assert.Len(t, body["authors"], 1)

	rr, body = app.get(t, "/catalog/books/create?isbn=0000000000")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, body, "book")
}
