package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/bookshelf-server/internal/api/http/context"
	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/mocks"
	"github.com/dtroode/bookshelf-server/internal/model"
	"github.com/dtroode/bookshelf-server/internal/service"
	"github.com/dtroode/bookshelf-server/internal/testutil"
)

func newBookHandler(svc *mockBookService) *Book {
	return NewBook(svc, httpctx.NewManager(), testutil.MakeNoopLogger())
}

func sampleBook(owner uuid.UUID) model.Book {
	stamp := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	return model.Book{
		ID:           uuid.New(),
		OwnerID:      owner,
		Title:        "Dune",
		Author:       "Frank Herbert",
		DateAdded:    stamp,
		DateModified: stamp,
	}
}

func TestBook_List(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	book := sampleBook(owner)
	svc.On("ListBooks", mock.Anything, owner).Return([]model.Book{book}, nil)

	rec := serve(http.MethodGet, "/api/books/", "/api/books/", "", &owner, newBookHandler(svc).List)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"id":"`+book.ID.String()+`",
		"title":"Dune",
		"author":"Frank Herbert",
		"isbn":null,
		"publication_year":null,
		"genre":null,
		"pages":null,
		"description":null,
		"date_added":"2024-02-03T04:05:06Z",
		"date_modified":"2024-02-03T04:05:06Z"
	}]`, rec.Body.String())
}

func TestBook_List_Empty(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	svc.On("ListBooks", mock.Anything, owner).Return([]model.Book{}, nil)

	rec := serve(http.MethodGet, "/api/books/", "/api/books/", "", &owner, newBookHandler(svc).List)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBook_Anonymous(t *testing.T) {
	rec := serve(http.MethodGet, "/api/books/", "/api/books/", "", nil, newBookHandler(&mockBookService{}).List)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBook_Create(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	book := sampleBook(owner)
	pages := 412
	book.Pages = &pages
	svc.On("CreateBook", mock.Anything, owner, model.BookParams{Title: "Dune", Author: "Frank Herbert", Pages: &pages}).
		Return(book, nil)

	rec := serve(http.MethodPost, "/api/books/", "/api/books/",
		`{"title":"Dune","author":"Frank Herbert","pages":412,"id":"ignored"}`, &owner, newBookHandler(svc).Create)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, book.ID.String(), got["id"])
	assert.Equal(t, "Dune", got["title"])
	assert.EqualValues(t, 412, got["pages"])
	assert.NotEmpty(t, got["date_added"])
}

func TestBook_Create_Validation(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	svc.On("CreateBook", mock.Anything, owner, model.BookParams{Title: "", Author: "X"}).
		Return(model.Book{}, apperrors.NewErrValidation("Title may not be blank"))

	rec := serve(http.MethodPost, "/api/books/", "/api/books/", `{"author":"X"}`, &owner, newBookHandler(svc).Create)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Title may not be blank"}`, rec.Body.String())
}

func TestBook_Get(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	book := sampleBook(owner)
	svc.On("GetBook", mock.Anything, owner, book.ID).Return(book, nil)

	rec := serve(http.MethodGet, "/api/books/{id}/", "/api/books/"+book.ID.String()+"/", "", &owner, newBookHandler(svc).Get)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), book.ID.String())
}

func TestBook_Get_NotFound(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	svc.On("GetBook", mock.Anything, owner, mock.Anything).Return(model.Book{}, apperrors.NewErrNotFound())

	rec := serve(http.MethodGet, "/api/books/{id}/", "/api/books/"+uuid.NewString()+"/", "", &owner, newBookHandler(svc).Get)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found."}`, rec.Body.String())
}

func TestBook_MalformedID(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}

	rec := serve(http.MethodGet, "/api/books/{id}/", "/api/books/42/", "", &owner, newBookHandler(svc).Get)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertNotCalled(t, "GetBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_Replace(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	book := sampleBook(owner)
	title, author := "Dune Messiah", "Frank Herbert"
	svc.On("UpdateBook", mock.Anything, owner, book.ID, model.BookPatch{Title: &title, Author: &author}, false).
		Return(book, nil)

	rec := serve(http.MethodPut, "/api/books/{id}/", "/api/books/"+book.ID.String()+"/",
		`{"title":"Dune Messiah","author":"Frank Herbert"}`, &owner, newBookHandler(svc).Replace)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestBook_Patch(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	book := sampleBook(owner)
	svc.On("UpdateBook", mock.Anything, owner, book.ID, model.BookPatch{Genre: model.SetField("Science fiction")}, true).
		Return(book, nil)

	rec := serve(http.MethodPatch, "/api/books/{id}/", "/api/books/"+book.ID.String()+"/",
		`{"genre":"Science fiction","title":null}`, &owner, newBookHandler(svc).Patch)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestBook_Patch_NullAndAbsent(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		patch model.BookPatch
	}{
		{name: "null isbn", body: `{"isbn":null}`, patch: model.BookPatch{ISBN: model.NullField[string]()}},
		{name: "empty object", body: `{}`, patch: model.BookPatch{}},
		{name: "empty body", body: "", patch: model.BookPatch{}},
		{
			name: "null numbers with a value",
			body: `{"pages":null,"publication_year":1965,"description":null}`,
			patch: model.BookPatch{
				Pages:           model.NullField[int](),
				PublicationYear: model.SetField(1965),
				Description:     model.NullField[string](),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := uuid.New()
			svc := &mockBookService{}
			book := sampleBook(owner)
			svc.On("UpdateBook", mock.Anything, owner, book.ID, tt.patch, true).Return(book, nil)

			rec := serve(http.MethodPatch, "/api/books/{id}/", "/api/books/"+book.ID.String()+"/",
				tt.body, &owner, newBookHandler(svc).Patch)

			assert.Equal(t, http.StatusOK, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestBook_Patch_NullClearsStoredField(t *testing.T) {
	owner := uuid.New()
	book := sampleBook(owner)
	isbn := "9780441013593"
	book.ISBN = &isbn

	store := &mocks.BookStore{}
	store.On("GetByIDAndOwner", mock.Anything, book.ID, owner).Return(book, nil)
	store.On("Update", mock.Anything, mock.Anything).
		Return(func(_ context.Context, b model.Book) model.Book { return b }, nil)
	h := NewBook(service.NewBook(store, testutil.MakeNoopLogger()), httpctx.NewManager(), testutil.MakeNoopLogger())

	rec := serve(http.MethodPatch, "/api/books/{id}/", "/api/books/"+book.ID.String()+"/",
		`{"isbn":null}`, &owner, h.Patch)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "isbn")
	assert.Nil(t, resp["isbn"])
	assert.Equal(t, "Dune", resp["title"])
}

func TestBook_Patch_WrongOptionalType(t *testing.T) {
	owner := uuid.New()
	svc := &mockBookService{}
	rec := serve(http.MethodPatch, "/api/books/{id}/", "/api/books/"+uuid.NewString()+"/",
		`{"pages":"many"}`, &owner, newBookHandler(svc).Patch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UpdateBook", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_Patch_InvalidJSON(t *testing.T) {
	owner := uuid.New()
	rec := serve(http.MethodPatch, "/api/books/{id}/", "/api/books/"+uuid.NewString()+"/",
		`{"genre":`, &owner, newBookHandler(&mockBookService{}).Patch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, rec.Body.String())
}

func TestBook_Delete(t *testing.T) {
	owner := uuid.New()
	bookID := uuid.New()
	svc := &mockBookService{}
	svc.On("DeleteBook", mock.Anything, owner, bookID).Return(nil)

	rec := serve(http.MethodDelete, "/api/books/{id}/", "/api/books/"+bookID.String()+"/", "", &owner, newBookHandler(svc).Delete)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
