package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bookshelf-server/internal/model"
)

// BookStore is a mock implementation of model.BookStore.
type BookStore struct {
	mock.Mock
}

func (m *BookStore) Create(ctx context.Context, book model.Book) (model.Book, error) {
	args := m.Called(ctx, book)
	if rf, ok := args.Get(0).(func(context.Context, model.Book) model.Book); ok {
		return rf(ctx, book), args.Error(1)
	}
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *BookStore) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (model.Book, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *BookStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error) {
	args := m.Called(ctx, ownerID)
	if v := args.Get(0); v != nil {
		return v.([]model.Book), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BookStore) Update(ctx context.Context, book model.Book) (model.Book, error) {
	args := m.Called(ctx, book)
	if rf, ok := args.Get(0).(func(context.Context, model.Book) model.Book); ok {
		return rf(ctx, book), args.Error(1)
	}
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *BookStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
