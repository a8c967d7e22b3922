package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/bookshelf-server/internal/model"
)

var _ model.BookStore = (*BookRepository)(nil)

const bookColumns = `id, owner_id, title, author, isbn, publication_year, genre, pages, description, date_added, date_modified`

type BookRepository struct {
	db querier
}

func NewBookRepository(db *Connection) *BookRepository {
	return &BookRepository{
		db: db,
	}
}

func (r *BookRepository) Create(ctx context.Context, book model.Book) (model.Book, error) {
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + bookColumns

	saved, err := scanBook(r.db.QueryRow(ctx, query,
		book.ID, book.OwnerID, book.Title, book.Author, book.ISBN, book.PublicationYear,
		book.Genre, book.Pages, book.Description, book.DateAdded, book.DateModified,
	))
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to create book: %w", err)
	}

	return saved, nil
}

func (r *BookRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (model.Book, error) {
	query := `SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1 AND owner_id = $2`

	book, err := scanBook(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("failed to get book by id: %w", err)
	}

	return book, nil
}

func (r *BookRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + `
		FROM books
		WHERE owner_id = $1
		ORDER BY date_added DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

// Update writes every mutable column of book. date_added is never touched.
func (r *BookRepository) Update(ctx context.Context, book model.Book) (model.Book, error) {
	query := `
		UPDATE books
		SET title = $3, author = $4, isbn = $5, publication_year = $6, genre = $7,
		    pages = $8, description = $9, date_modified = $10
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + bookColumns

	saved, err := scanBook(r.db.QueryRow(ctx, query,
		book.ID, book.OwnerID, book.Title, book.Author, book.ISBN, book.PublicationYear,
		book.Genre, book.Pages, book.Description, book.DateModified,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("failed to update book: %w", err)
	}

	return saved, nil
}

func (r *BookRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	const query = `DELETE FROM books WHERE id = $1 AND owner_id = $2`
	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.ISBN, &b.PublicationYear,
		&b.Genre, &b.Pages, &b.Description, &b.DateAdded, &b.DateModified,
	)
	return b, err
}
