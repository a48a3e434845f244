// Package mocks holds testify mocks of the service interfaces used by the
// HTTP handlers.
package mocks

import "github.com/pageza/foodgram/backend/internal/service"

var (
	_ service.IAuthService         = (*MockAuthService)(nil)
	_ service.IShoppingListService = (*MockShoppingListService)(nil)
)
