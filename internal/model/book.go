package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookStore defines persistence operations for books.
// Every method filters on the owner, a book is never reachable through another user.
type BookStore interface {
	Create(ctx context.Context, book Book) (Book, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (Book, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Book, error)
	Update(ctx context.Context, book Book) (Book, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// Book represents a stored book entity.
type Book struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Title           string
	Author          string
	ISBN            *string
	PublicationYear *int
	Genre           *string
	Pages           *int
	Description     *string
	DateAdded       time.Time
	DateModified    time.Time
}

// String returns the "<title> by <author>" form used in logs and prompts.
func (b Book) String() string {
	return b.Title + " by " + b.Author
}

// BookParams contains parameters to create a book.
type BookParams struct {
	Title           string
	Author          string
	ISBN            *string
	PublicationYear *int
	Genre           *string
	Pages           *int
	Description     *string
}

// BookPatch contains fields to change on an existing book. Nil title and
// author are left as is. Optional fields change only when Set.
type BookPatch struct {
	Title           *string
	Author          *string
	ISBN            Field[string]
	PublicationYear Field[int]
	Genre           Field[string]
	Pages           Field[int]
	Description     Field[string]
}

// Field is a patch value for a nullable column. An unset field is left
// unchanged, a set field with a nil Value clears the column.
type Field[T any] struct {
	Set   bool
	Value *T
}

// SetField returns a field that stores v.
func SetField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// NullField returns a field that clears the column.
func NullField[T any]() Field[T] {
	return Field[T]{Set: true}
}

// apply writes the field into dst when it is set.
func (f Field[T]) apply(dst **T) {
	if f.Set {
		*dst = f.Value
	}
}

// Apply copies the supplied fields into b. Title and author are trimmed.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	p.ISBN.apply(&b.ISBN)
	p.PublicationYear.apply(&b.PublicationYear)
	p.Genre.apply(&b.Genre)
	p.Pages.apply(&b.Pages)
	p.Description.apply(&b.Description)
}

const (
	// MaxTitleLength is the maximum title length in characters.
	MaxTitleLength = 200
	// MaxAuthorLength is the maximum author length in characters.
	MaxAuthorLength = 200
	// MaxISBNLength is the maximum ISBN length in characters.
	MaxISBNLength = 13
	// MaxGenreLength is the maximum genre length in characters.
	MaxGenreLength = 100
)
