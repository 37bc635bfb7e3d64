package mocks

import (
	"context"

	"imageconv/internal/intake"

	"github.com/stretchr/testify/mock"
)

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Upload(ctx context.Context, payload []byte, params intake.Params) (string, error) {
	args := m.Called(ctx, payload, params)
	return args.String(0), args.Error(1)
}

func (m *MockImageService) Fetch(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
