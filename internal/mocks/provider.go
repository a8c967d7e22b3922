package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bookshelf-server/internal/llm"
)

// Provider is a mock implementation of llm.Provider.
type Provider struct {
	mock.Mock
}

func (m *Provider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *Provider) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Provider) Complete(ctx context.Context, req llm.TextRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *Provider) DescribeImage(ctx context.Context, req llm.ImageRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
