package types

import "github.com/google/uuid"

// Viewer is the identity a projection is computed for. The zero value is an
// anonymous viewer.
type Viewer struct {
	ID            uuid.UUID
	Authenticated bool
}

// Anonymous returns a viewer with no identity.
func Anonymous() Viewer {
	return Viewer{}
}

// AuthenticatedViewer returns a viewer for the given user.
func AuthenticatedViewer(id uuid.UUID) Viewer {
	return Viewer{ID: id, Authenticated: true}
}

type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

type RecipeIngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type UserView struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// RecipeSummary is the short recipe form used by favorites, the shopping
// cart and subscriptions.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type RecipeView struct {
	ID               uuid.UUID              `json:"id"`
	Name             string                 `json:"name"`
	Text             string                 `json:"text"`
	Image            string                 `json:"image"`
	CookingTime      int                    `json:"cooking_time"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Tags             []TagView              `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
}

// SubscriptionView is an author as seen from the subscriptions list.
type SubscriptionView struct {
	UserView
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}
