package service

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
)

// RankedIngredient is an ingredient with its search score.
type RankedIngredient struct {
	models.Ingredient
	Score float64
}

// RankIngredients keeps the ingredients whose name contains query
// (case-insensitive) and orders them by score, then by case-folded name with
// the raw name breaking the remaining ties. A name that starts with query
// scores 2, one that only contains it scores 1.
// Duplicate identities keep their first occurrence.
func RankIngredients(query string, ingredients []models.Ingredient) []RankedIngredient {
	q := strings.ToLower(query)
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	ranked := make([]RankedIngredient, 0, len(ingredients))

	for _, ing := range ingredients {
		if _, dup := seen[ing.ID]; dup {
			continue
		}
		name := strings.ToLower(ing.Name)
		var score float64
		if strings.HasPrefix(name, q) {
			score++
		}
		if strings.Contains(name, q) {
			score++
		}
		if score == 0 {
			continue
		}
		seen[ing.ID] = struct{}{}
		ranked = append(ranked, RankedIngredient{Ingredient: ing, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		li, lj := strings.ToLower(ranked[i].Name), strings.ToLower(ranked[j].Name)
		if li != lj {
			return li < lj
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
