package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/render"
)

// MockShoppingListService is a mock implementation of IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Document(ctx context.Context, user *models.User) (render.Document, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(render.Document), args.Error(1)
}
