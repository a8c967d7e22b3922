package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

// EnrichmentService defines the language model backed operations.
type EnrichmentService interface {
	GenerateReminder(ctx context.Context, ownerID, bookID uuid.UUID) (model.Reminder, error)
	AnalyzeBookshelfPhoto(ctx context.Context) (model.BookshelfAnalysis, error)
}

// Enrichment handles the reminder and bookshelf analysis endpoints.
type Enrichment struct {
	enrichmentService EnrichmentService
	books             *Book
	logger            *logger.Logger
}

func NewEnrichment(enrichmentService EnrichmentService, books *Book, logger *logger.Logger) *Enrichment {
	return &Enrichment{
		enrichmentService: enrichmentService,
		books:             books,
		logger:            logger,
	}
}

type reminderBook struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
}

type reminderResponse struct {
	Book     reminderBook `json:"book"`
	Reminder string       `json:"reminder"`
}

type analysisResponse struct {
	Message       string                  `json:"message"`
	BooksDetected int                     `json:"books_detected"`
	Books         []model.BookshelfRecord `json:"books"`
	CSVFile       string                  `json:"csv_file"`
	PhotoFilename string                  `json:"photo_filename"`
	FullAnalysis  string                  `json:"full_analysis"`
}

// RemindMe generates text about one of the caller's books.
func (h *Enrichment) RemindMe(w http.ResponseWriter, r *http.Request) {
	ownerID, bookID, ok := h.books.ownerAndBook(w, r)
	if !ok {
		return
	}

	reminder, err := h.enrichmentService.GenerateReminder(r.Context(), ownerID, bookID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, reminderResponse{
		Book: reminderBook{
			ID:     reminder.Book.ID,
			Title:  reminder.Book.Title,
			Author: reminder.Book.Author,
		},
		Reminder: reminder.Text,
	})
}

// AnalyzeBookshelf lists the books on the sample bookshelf photo.
func (h *Enrichment) AnalyzeBookshelf(w http.ResponseWriter, r *http.Request) {
	result, err := h.enrichmentService.AnalyzeBookshelfPhoto(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	books := result.Books
	if books == nil {
		books = []model.BookshelfRecord{}
	}

	writeJSON(w, h.logger, http.StatusOK, analysisResponse{
		Message:       "Bookshelf analysis completed",
		BooksDetected: len(books),
		Books:         books,
		CSVFile:       result.CSVFile,
		PhotoFilename: result.PhotoFilename,
		FullAnalysis:  result.FullAnalysis,
	})
}
