package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

// BookService defines the owner scoped book operations.
type BookService interface {
	ListBooks(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error)
	CreateBook(ctx context.Context, ownerID uuid.UUID, params model.BookParams) (model.Book, error)
	GetBook(ctx context.Context, ownerID, bookID uuid.UUID) (model.Book, error)
	UpdateBook(ctx context.Context, ownerID, bookID uuid.UUID, patch model.BookPatch, partial bool) (model.Book, error)
	DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error
}

// Book handles the /api/books endpoints.
type Book struct {
	bookService    BookService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewBook(bookService BookService, contextManager model.ContextManager, logger *logger.Logger) *Book {
	return &Book{
		bookService:    bookService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// bookRequest is the writable part of a book. Absent and null title or
// author are nil. Optional fields keep absent and null apart.
type bookRequest struct {
	Title           *string          `json:"title"`
	Author          *string          `json:"author"`
	ISBN            nullable[string] `json:"isbn"`
	PublicationYear nullable[int]    `json:"publication_year"`
	Genre           nullable[string] `json:"genre"`
	Pages           nullable[int]    `json:"pages"`
	Description     nullable[string] `json:"description"`
}

// nullable records whether a JSON key was present and whether it was null.
type nullable[T any] struct {
	set   bool
	value *T
}

func (n *nullable[T]) UnmarshalJSON(data []byte) error {
	n.set = true
	if bytes.Equal(data, []byte("null")) {
		n.value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.value = &v
	return nil
}

func (n nullable[T]) field() model.Field[T] {
	return model.Field[T]{Set: n.set, Value: n.value}
}

type bookResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            *string   `json:"isbn"`
	PublicationYear *int      `json:"publication_year"`
	Genre           *string   `json:"genre"`
	Pages           *int      `json:"pages"`
	Description     *string   `json:"description"`
	DateAdded       time.Time `json:"date_added"`
	DateModified    time.Time `json:"date_modified"`
}

func toBookResponse(b model.Book) bookResponse {
	return bookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		Genre:           b.Genre,
		Pages:           b.Pages,
		Description:     b.Description,
		DateAdded:       b.DateAdded,
		DateModified:    b.DateModified,
	}
}

func (h *Book) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	books, err := h.bookService.ListBooks(r.Context(), ownerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	resp := make([]bookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, toBookResponse(b))
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *Book) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req bookRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, h.logger, err)
		return
	}

	book, err := h.bookService.CreateBook(r.Context(), ownerID, model.BookParams{
		Title:           deref(req.Title),
		Author:          deref(req.Author),
		ISBN:            req.ISBN.value,
		PublicationYear: req.PublicationYear.value,
		Genre:           req.Genre.value,
		Pages:           req.Pages.value,
		Description:     req.Description.value,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, toBookResponse(book))
}

func (h *Book) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, bookID, ok := h.ownerAndBook(w, r)
	if !ok {
		return
	}

	book, err := h.bookService.GetBook(r.Context(), ownerID, bookID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toBookResponse(book))
}

// Replace handles PUT. Title and author are required.
func (h *Book) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// Patch handles PATCH. Only supplied fields change.
func (h *Book) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *Book) update(w http.ResponseWriter, r *http.Request, partial bool) {
	ownerID, bookID, ok := h.ownerAndBook(w, r)
	if !ok {
		return
	}

	var req bookRequest
	if err := decodeJSON(r, &req, partial); err != nil {
		handleError(w, h.logger, err)
		return
	}

	book, err := h.bookService.UpdateBook(r.Context(), ownerID, bookID, model.BookPatch{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN.field(),
		PublicationYear: req.PublicationYear.field(),
		Genre:           req.Genre.field(),
		Pages:           req.Pages.field(),
		Description:     req.Description.field(),
	}, partial)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toBookResponse(book))
}

func (h *Book) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, bookID, ok := h.ownerAndBook(w, r)
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(r.Context(), ownerID, bookID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Book) owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		handleError(w, h.logger, apperrors.NewErrMissingCredentials())
		return uuid.Nil, false
	}
	return ownerID, true
}

// ownerAndBook resolves the caller and the {id} path parameter. A malformed
// id is reported the same way as a missing book.
func (h *Book) ownerAndBook(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	bookID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.logger, apperrors.NewErrNotFound())
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, bookID, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
