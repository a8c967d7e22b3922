package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/bookshelf-server/internal/analysis"
	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/llm"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
	"github.com/dtroode/bookshelf-server/internal/prompt"
)

// EnrichmentConfig holds the enrichment limits and file locations.
type EnrichmentConfig struct {
	SampleImage       string
	ReminderMaxTokens int
	AnalysisMaxTokens int
}

// Enrichment asks the language model about books and bookshelf photos.
type Enrichment struct {
	bookStore model.BookStore
	provider  llm.Provider
	templates prompt.Templates
	exporter  *analysis.Exporter
	cfg       EnrichmentConfig
	logger    *logger.Logger
	now       func() time.Time
}

func NewEnrichment(
	bookStore model.BookStore,
	provider llm.Provider,
	templates prompt.Templates,
	exporter *analysis.Exporter,
	cfg EnrichmentConfig,
	logger *logger.Logger,
) *Enrichment {
	return &Enrichment{
		bookStore: bookStore,
		provider:  provider,
		templates: templates,
		exporter:  exporter,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateReminder returns model generated text about a book owned by ownerID.
func (s *Enrichment) GenerateReminder(ctx context.Context, ownerID, bookID uuid.UUID) (model.Reminder, error) {
	book, err := s.bookStore.GetByIDAndOwner(ctx, bookID, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Reminder{}, apperrors.NewErrNotFound()
	}
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to get book by id: %w", err)
	}

	if !s.provider.Configured() {
		return model.Reminder{}, apperrors.NewErrMissingAPIKey(s.provider.Name())
	}

	text, err := s.provider.Complete(ctx, llm.TextRequest{
		Prompt:    s.templates.RenderReminder(book.Title, book.Author),
		MaxTokens: s.cfg.ReminderMaxTokens,
	})
	if err != nil {
		return model.Reminder{}, s.upstreamError("reminder", err)
	}

	s.logger.Info("Enrichment service: reminder generated",
		"owner_id", ownerID,
		"book_id", bookID)

	return model.Reminder{Book: book, Text: text}, nil
}

// AnalyzeBookshelfPhoto lists the books visible on the sample photo and
// exports them to a CSV file.
func (s *Enrichment) AnalyzeBookshelfPhoto(ctx context.Context) (model.BookshelfAnalysis, error) {
	path := s.cfg.SampleImage
	image, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.BookshelfAnalysis{}, apperrors.NewErrSampleImageNotFound(path)
	}
	if err != nil {
		return model.BookshelfAnalysis{}, apperrors.NewErrUpstream(fmt.Errorf("failed to read sample image: %w", err))
	}

	if !s.provider.Configured() {
		return model.BookshelfAnalysis{}, apperrors.NewErrMissingAPIKey(s.provider.Name())
	}

	raw, err := s.provider.DescribeImage(ctx, llm.ImageRequest{
		Prompt:    s.templates.Bookshelf,
		Image:     image,
		MediaType: llm.MediaTypeFromPath(path),
		MaxTokens: s.cfg.AnalysisMaxTokens,
	})
	if err != nil {
		return model.BookshelfAnalysis{}, s.upstreamError("bookshelf analysis", err)
	}

	photo := filepath.Base(path)
	books := analysis.Parse(raw)

	csvFile, err := s.exporter.Export(ctx, books, photo)
	if err != nil {
		s.logger.Error("Enrichment service: failed to export analysis",
			"error", err.Error())
		return model.BookshelfAnalysis{}, apperrors.NewErrUpstream(err)
	}

	s.logger.Info("Enrichment service: bookshelf analyzed",
		"books_detected", len(books),
		"csv_file", csvFile)

	return model.BookshelfAnalysis{
		Books:         books,
		CSVFile:       csvFile,
		PhotoFilename: photo,
		FullAnalysis:  raw,
		AnalyzedAt:    s.now(),
	}, nil
}

func (s *Enrichment) upstreamError(call string, err error) error {
	if errors.Is(err, llm.ErrNotConfigured) {
		return apperrors.NewErrMissingAPIKey(s.provider.Name())
	}

	s.logger.Error("Enrichment service: upstream call failed",
		"call", call,
		"provider", s.provider.Name(),
		"error", err.Error())

	return apperrors.NewErrUpstream(err)
}
