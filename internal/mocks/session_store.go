package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bookshelf-server/internal/model"
)

// SessionStore is a mock implementation of model.SessionStore.
type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Create(ctx context.Context, session model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionStore) GetByJTI(ctx context.Context, jti string) (model.Session, error) {
	args := m.Called(ctx, jti)
	if rf, ok := args.Get(0).(func(context.Context, string) model.Session); ok {
		return rf(ctx, jti), args.Error(1)
	}
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *SessionStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
