package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

// Book manages the books of a single owner at a time. The owner is always
// passed in explicitly and every lookup is scoped to it.
type Book struct {
	bookStore model.BookStore
	logger    *logger.Logger
	now       func() time.Time
}

func NewBook(bookStore model.BookStore, logger *logger.Logger) *Book {
	return &Book{
		bookStore: bookStore,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Book) ListBooks(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error) {
	books, err := s.bookStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books by owner: %w", err)
	}

	return books, nil
}

func (s *Book) CreateBook(ctx context.Context, ownerID uuid.UUID, params model.BookParams) (model.Book, error) {
	now := s.timestamp()
	book := model.Book{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           strings.TrimSpace(params.Title),
		Author:          strings.TrimSpace(params.Author),
		ISBN:            params.ISBN,
		PublicationYear: params.PublicationYear,
		Genre:           params.Genre,
		Pages:           params.Pages,
		Description:     params.Description,
		DateAdded:       now,
		DateModified:    now,
	}

	if err := validateBook(book); err != nil {
		return model.Book{}, err
	}

	saved, err := s.bookStore.Create(ctx, book)
	if err != nil {
		s.logger.Error("Book service: failed to create book",
			"owner_id", ownerID,
			"error", err.Error())
		return model.Book{}, fmt.Errorf("failed to create book: %w", err)
	}

	s.logger.Info("Book service: book created",
		"owner_id", ownerID,
		"book_id", saved.ID)

	return saved, nil
}

// GetBook returns the book if ownerID owns it. A missing book and a foreign
// book produce the same NotFound error.
func (s *Book) GetBook(ctx context.Context, ownerID, bookID uuid.UUID) (model.Book, error) {
	book, err := s.bookStore.GetByIDAndOwner(ctx, bookID, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Book{}, apperrors.NewErrNotFound()
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to get book by id: %w", err)
	}

	return book, nil
}

// UpdateBook applies patch to the book. A full update (partial == false)
// must carry both title and author.
func (s *Book) UpdateBook(ctx context.Context, ownerID, bookID uuid.UUID, patch model.BookPatch, partial bool) (model.Book, error) {
	book, err := s.GetBook(ctx, ownerID, bookID)
	if err != nil {
		return model.Book{}, err
	}

	if !partial {
		if patch.Title == nil {
			return model.Book{}, apperrors.NewErrValidation("Title is required")
		}
		if patch.Author == nil {
			return model.Book{}, apperrors.NewErrValidation("Author is required")
		}
	}

	patch.Apply(&book)
	if err := validateBook(book); err != nil {
		return model.Book{}, err
	}

	modified := s.timestamp()
	if !modified.After(book.DateModified) {
		modified = book.DateModified.Add(time.Microsecond)
	}
	book.DateModified = modified

	saved, err := s.bookStore.Update(ctx, book)
	if errors.Is(err, model.ErrNotFound) {
		return model.Book{}, apperrors.NewErrNotFound()
	}
	if err != nil {
		s.logger.Error("Book service: failed to update book",
			"owner_id", ownerID,
			"book_id", bookID,
			"error", err.Error())
		return model.Book{}, fmt.Errorf("failed to update book: %w", err)
	}

	s.logger.Info("Book service: book updated",
		"owner_id", ownerID,
		"book_id", bookID)

	return saved, nil
}

func (s *Book) DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error {
	err := s.bookStore.Delete(ctx, bookID, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return apperrors.NewErrNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	s.logger.Info("Book service: book deleted",
		"owner_id", ownerID,
		"book_id", bookID)

	return nil
}

// timestamp is truncated to the precision the database keeps.
func (s *Book) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func validateBook(book model.Book) error {
	switch {
	case book.Title == "":
		return apperrors.NewErrValidation("Title may not be blank")
	case book.Author == "":
		return apperrors.NewErrValidation("Author may not be blank")
	case tooLong(book.Title, model.MaxTitleLength):
		return apperrors.NewErrValidation(fmt.Sprintf("Title must be at most %d characters", model.MaxTitleLength))
	case tooLong(book.Author, model.MaxAuthorLength):
		return apperrors.NewErrValidation(fmt.Sprintf("Author must be at most %d characters", model.MaxAuthorLength))
	case book.ISBN != nil && tooLong(*book.ISBN, model.MaxISBNLength):
		return apperrors.NewErrValidation(fmt.Sprintf("ISBN must be at most %d characters", model.MaxISBNLength))
	case book.Genre != nil && tooLong(*book.Genre, model.MaxGenreLength):
		return apperrors.NewErrValidation(fmt.Sprintf("Genre must be at most %d characters", model.MaxGenreLength))
	}
	return nil
}

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}
