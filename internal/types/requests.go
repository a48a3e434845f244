package types

import "encoding/json"

// RecipePayload is the body of POST /recipes/ and PATCH /recipes/{id}/.
// Numeric fields stay raw so the validator decides how they coerce.
type RecipePayload struct {
	Ingredients Optional[[]IngredientAmountInput] `json:"ingredients"`
	Tags        Optional[[]string]                `json:"tags"`
	Name        Optional[string]                  `json:"name"`
	Image       Optional[string]                  `json:"image"`
	Text        Optional[string]                  `json:"text"`
	CookingTime Optional[json.RawMessage]         `json:"cooking_time"`
}

// IngredientAmountInput is one entry of RecipePayload.Ingredients.
type IngredientAmountInput struct {
	ID     string          `json:"id"`
	Amount json.RawMessage `json:"amount"`
}

// RegisterRequest is the body of POST /users/.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// LoginRequest is the body of POST /auth/token/login/.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IDParam binds the {id} path segment.
type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// RecipeFilter holds the query parameters of GET /recipes/.
type RecipeFilter struct {
	Author           string   `form:"author" binding:"omitempty,uuid"`
	Tags             []string `form:"tags"`
	IsFavorited      bool     `form:"is_favorited"`
	IsInShoppingCart bool     `form:"is_in_shopping_cart"`
}

// PageQuery holds page-number pagination parameters.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
