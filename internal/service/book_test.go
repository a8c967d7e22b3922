package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/mocks"
	"github.com/dtroode/bookshelf-server/internal/model"
	"github.com/dtroode/bookshelf-server/internal/testutil"
)

func strPtr(s string) *string { return &s }

func newBookService(store *mocks.BookStore, now time.Time) *Book {
	s := NewBook(store, testutil.MakeNoopLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestBook_CreateBook_TrimsAndStamps(t *testing.T) {
	ctx := context.Background()
	store := &mocks.BookStore{}
	owner := uuid.New()
	now := time.Date(2024, 1, 2, 3, 4, 5, 6789, time.UTC)

	store.On("Create", mock.Anything, mock.MatchedBy(func(b model.Book) bool {
		return b.OwnerID == owner &&
			b.Title == "Dune" &&
			b.Author == "Frank Herbert" &&
			b.DateAdded.Equal(now.Truncate(time.Microsecond)) &&
			b.DateModified.Equal(b.DateAdded)
	})).Return(func(_ context.Context, b model.Book) model.Book { return b }, nil).Once()

	s := newBookService(store, now)
	book, err := s.CreateBook(ctx, owner, model.BookParams{Title: "  Dune ", Author: " Frank Herbert"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, book.ID)
	assert.Equal(t, "Dune", book.Title)
	store.AssertExpectations(t)
}

func TestBook_CreateBook_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  model.BookParams
		message string
	}{
		{name: "blank title", params: model.BookParams{Title: "   ", Author: "A"}, message: "Title may not be blank"},
		{name: "blank author", params: model.BookParams{Title: "T", Author: ""}, message: "Author may not be blank"},
		{name: "long title", params: model.BookParams{Title: strings.Repeat("x", 201), Author: "A"}, message: "Title must be at most 200 characters"},
		{name: "long isbn", params: model.BookParams{Title: "T", Author: "A", ISBN: strPtr("12345678901234")}, message: "ISBN must be at most 13 characters"},
		{name: "long genre", params: model.BookParams{Title: "T", Author: "A", Genre: strPtr(strings.Repeat("g", 101))}, message: "Genre must be at most 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.BookStore{}
			s := newBookService(store, time.Now())

			_, err := s.CreateBook(context.Background(), uuid.New(), tt.params)
			require.Error(t, err)

			apiErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, apiErr.Kind)
			assert.Equal(t, tt.message, apiErr.Message)
			store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestBook_GetBook_NotOwned(t *testing.T) {
	store := &mocks.BookStore{}
	owner, bookID := uuid.New(), uuid.New()
	store.On("GetByIDAndOwner", mock.Anything, bookID, owner).Return(model.Book{}, model.ErrNotFound)

	s := newBookService(store, time.Now())
	_, err := s.GetBook(context.Background(), owner, bookID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.NewErrNotFound())
}

func TestBook_GetBook_StoreError(t *testing.T) {
	store := &mocks.BookStore{}
	store.On("GetByIDAndOwner", mock.Anything, mock.Anything, mock.Anything).Return(model.Book{}, errors.New("connection reset"))

	s := newBookService(store, time.Now())
	_, err := s.GetBook(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	_, ok := apperrors.As(err)
	assert.False(t, ok)
}

func TestBook_ListBooks(t *testing.T) {
	store := &mocks.BookStore{}
	owner := uuid.New()
	books := []model.Book{{ID: uuid.New(), OwnerID: owner, Title: "B"}, {ID: uuid.New(), OwnerID: owner, Title: "A"}}
	store.On("ListByOwner", mock.Anything, owner).Return(books, nil)

	s := newBookService(store, time.Now())
	got, err := s.ListBooks(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, books, got)
}

func TestBook_UpdateBook_Partial(t *testing.T) {
	ctx := context.Background()
	store := &mocks.BookStore{}
	owner, bookID := uuid.New(), uuid.New()
	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := model.Book{ID: bookID, OwnerID: owner, Title: "Old", Author: "Someone", DateAdded: added, DateModified: added}
	now := added.Add(time.Hour)

	store.On("GetByIDAndOwner", mock.Anything, bookID, owner).Return(existing, nil)
	store.On("Update", mock.Anything, mock.Anything).
		Return(func(_ context.Context, b model.Book) model.Book { return b }, nil)

	s := newBookService(store, now)
	got, err := s.UpdateBook(ctx, owner, bookID, model.BookPatch{Title: strPtr(" New ")}, true)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "Someone", got.Author)
	assert.Equal(t, added, got.DateAdded)
	assert.Equal(t, now, got.DateModified)
}

func TestBook_UpdateBook_OptionalFields(t *testing.T) {
	owner, bookID := uuid.New(), uuid.New()
	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	year, pages := 1965, 412

	tests := []struct {
		name  string
		patch model.BookPatch
		check func(t *testing.T, got model.Book)
	}{
		{
			name:  "null clears isbn",
			patch: model.BookPatch{ISBN: model.NullField[string]()},
			check: func(t *testing.T, got model.Book) {
				assert.Nil(t, got.ISBN)
				require.NotNil(t, got.Genre)
				assert.Equal(t, "Science fiction", *got.Genre)
			},
		},
		{
			name:  "empty patch keeps every field",
			patch: model.BookPatch{},
			check: func(t *testing.T, got model.Book) {
				require.NotNil(t, got.ISBN)
				assert.Equal(t, "9780441013593", *got.ISBN)
				require.NotNil(t, got.Pages)
				assert.Equal(t, pages, *got.Pages)
			},
		},
		{
			name: "null clears numbers and text",
			patch: model.BookPatch{
				PublicationYear: model.NullField[int](),
				Pages:           model.NullField[int](),
				Description:     model.NullField[string](),
			},
			check: func(t *testing.T, got model.Book) {
				assert.Nil(t, got.PublicationYear)
				assert.Nil(t, got.Pages)
				assert.Nil(t, got.Description)
				require.NotNil(t, got.ISBN)
			},
		},
		{
			name:  "value replaces genre",
			patch: model.BookPatch{Genre: model.SetField("Classic")},
			check: func(t *testing.T, got model.Book) {
				require.NotNil(t, got.Genre)
				assert.Equal(t, "Classic", *got.Genre)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := model.Book{
				ID:              bookID,
				OwnerID:         owner,
				Title:           "Dune",
				Author:          "Frank Herbert",
				ISBN:            strPtr("9780441013593"),
				PublicationYear: &year,
				Genre:           strPtr("Science fiction"),
				Pages:           &pages,
				Description:     strPtr("Desert planet"),
				DateAdded:       added,
				DateModified:    added,
			}
			store := &mocks.BookStore{}
			store.On("GetByIDAndOwner", mock.Anything, bookID, owner).Return(existing, nil)
			store.On("Update", mock.Anything, mock.Anything).
				Return(func(_ context.Context, b model.Book) model.Book { return b }, nil)

			s := newBookService(store, added.Add(time.Hour))
			got, err := s.UpdateBook(context.Background(), owner, bookID, tt.patch, true)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestBook_UpdateBook_DateModifiedAdvances(t *testing.T) {
	store := &mocks.BookStore{}
	owner, bookID := uuid.New(), uuid.New()
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := model.Book{ID: bookID, OwnerID: owner, Title: "T", Author: "A", DateAdded: stamp, DateModified: stamp}

	store.On("GetByIDAndOwner", mock.Anything, bookID, owner).Return(existing, nil)
	store.On("Update", mock.Anything, mock.Anything).
		Return(func(_ context.Context, b model.Book) model.Book { return b }, nil)

	s := newBookService(store, stamp)
	got, err := s.UpdateBook(context.Background(), owner, bookID, model.BookPatch{}, true)
	require.NoError(t, err)
	assert.True(t, got.DateModified.After(stamp))
}

func TestBook_UpdateBook_FullRequiresTitleAndAuthor(t *testing.T) {
	store := &mocks.BookStore{}
	owner, bookID := uuid.New(), uuid.New()
	store.On("GetByIDAndOwner", mock.Anything, bookID, owner).Return(model.Book{ID: bookID, OwnerID: owner, Title: "T", Author: "A"}, nil)

	s := newBookService(store, time.Now())
	_, err := s.UpdateBook(context.Background(), owner, bookID, model.BookPatch{Title: strPtr("T")}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.NewErrValidation(""))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBook_UpdateBook_BlankTitle(t *testing.T) {
	store := &mocks.BookStore{}
	owner, bookID := uuid.New(), uuid.New()
	store.On("GetByIDAndOwner", mock.Anything, bookID, owner).Return(model.Book{ID: bookID, OwnerID: owner, Title: "T", Author: "A"}, nil)

	s := newBookService(store, time.Now())
	_, err := s.UpdateBook(context.Background(), owner, bookID, model.BookPatch{Title: strPtr("  ")}, true)
	require.Error(t, err)
	assert.Equal(t, "Title may not be blank", err.Error())
}

func TestBook_UpdateBook_NotOwned(t *testing.T) {
	store := &mocks.BookStore{}
	store.On("GetByIDAndOwner", mock.Anything, mock.Anything, mock.Anything).Return(model.Book{}, model.ErrNotFound)

	s := newBookService(store, time.Now())
	_, err := s.UpdateBook(context.Background(), uuid.New(), uuid.New(), model.BookPatch{Title: strPtr("X")}, true)
	assert.ErrorIs(t, err, apperrors.NewErrNotFound())
}

func TestBook_DeleteBook(t *testing.T) {
	store := &mocks.BookStore{}
	owner, bookID, missing := uuid.New(), uuid.New(), uuid.New()
	store.On("Delete", mock.Anything, bookID, owner).Return(nil)
	store.On("Delete", mock.Anything, missing, owner).Return(model.ErrNotFound)

	s := newBookService(store, time.Now())
	require.NoError(t, s.DeleteBook(context.Background(), owner, bookID))
	assert.ErrorIs(t, s.DeleteBook(context.Background(), owner, missing), apperrors.NewErrNotFound())
}
