package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	httpctx "github.com/dtroode/bookshelf-server/internal/api/http/context"
	"github.com/dtroode/bookshelf-server/internal/model"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (model.User, string, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}

type mockBookService struct {
	mock.Mock
}

func (m *mockBookService) ListBooks(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *mockBookService) CreateBook(ctx context.Context, ownerID uuid.UUID, params model.BookParams) (model.Book, error) {
	args := m.Called(ctx, ownerID, params)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *mockBookService) GetBook(ctx context.Context, ownerID, bookID uuid.UUID) (model.Book, error) {
	args := m.Called(ctx, ownerID, bookID)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *mockBookService) UpdateBook(ctx context.Context, ownerID, bookID uuid.UUID, patch model.BookPatch, partial bool) (model.Book, error) {
	args := m.Called(ctx, ownerID, bookID, patch, partial)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *mockBookService) DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error {
	return m.Called(ctx, ownerID, bookID).Error(0)
}

type mockEnrichmentService struct {
	mock.Mock
}

func (m *mockEnrichmentService) GenerateReminder(ctx context.Context, ownerID, bookID uuid.UUID) (model.Reminder, error) {
	args := m.Called(ctx, ownerID, bookID)
	return args.Get(0).(model.Reminder), args.Error(1)
}

func (m *mockEnrichmentService) AnalyzeBookshelfPhoto(ctx context.Context) (model.BookshelfAnalysis, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.BookshelfAnalysis), args.Error(1)
}

// serve routes a single request to h through chi so path parameters resolve.
// A non-nil userID marks the request as authenticated.
func serve(method, pattern, target, body string, userID *uuid.UUID, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != nil {
		req = req.WithContext(httpctx.NewManager().SetUserIDToContext(req.Context(), *userID))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
