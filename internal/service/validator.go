package service

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Catalog answers the store lookups recipe validation needs.
type Catalog interface {
	CountIngredients(ctx context.Context, ids []uuid.UUID) (int64, error)
	CountTags(ctx context.Context, ids []uuid.UUID) (int64, error)
	RecipeNameTaken(ctx context.Context, authorID uuid.UUID, name string, exclude uuid.UUID) (bool, error)
}

// IngredientAmount is a validated ingredient link.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeDraft is a validated payload. Nil fields were not supplied and
// must be left untouched on update.
type RecipeDraft struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *DecodedImage
	Tags        []uuid.UUID
	Ingredients []IngredientAmount
}

type validationMode int

const (
	modeCreate validationMode = iota
	modeUpdate
)

// validation carries one payload through the stages.
type validation struct {
	mode     validationMode
	catalog  Catalog
	payload  *types.RecipePayload
	authorID uuid.UUID
	recipeID uuid.UUID

	ingredientIDs []uuid.UUID
	badIngredient bool
	draft         RecipeDraft
}

// stage inspects the payload and fills the draft. A non-nil result is an
// *errs.Error and stops the chain.
type stage func(ctx context.Context, v *validation) error

// recipeStages run in order; the first failure wins.
var recipeStages = []stage{
	requireFields,
	checkCookingTime,
	checkAmounts,
	checkDuplicateIngredients,
	checkIngredientsExist,
	checkTagsExist,
	checkNameUnique,
	decodeImage,
}

// RecipeValidator turns raw recipe payloads into drafts.
type RecipeValidator struct {
	catalog Catalog
}

func NewRecipeValidator(catalog Catalog) *RecipeValidator {
	return &RecipeValidator{catalog: catalog}
}

// ValidateCreate requires every field.
func (rv *RecipeValidator) ValidateCreate(ctx context.Context, authorID uuid.UUID, payload *types.RecipePayload) (*RecipeDraft, error) {
	return rv.run(ctx, &validation{
		mode:     modeCreate,
		catalog:  rv.catalog,
		payload:  payload,
		authorID: authorID,
	})
}

// ValidateUpdate checks only the supplied fields. A supplied field that is
// empty is still missing.
func (rv *RecipeValidator) ValidateUpdate(ctx context.Context, authorID, recipeID uuid.UUID, payload *types.RecipePayload) (*RecipeDraft, error) {
	return rv.run(ctx, &validation{
		mode:     modeUpdate,
		catalog:  rv.catalog,
		payload:  payload,
		authorID: authorID,
		recipeID: recipeID,
	})
}

func (rv *RecipeValidator) run(ctx context.Context, v *validation) (*RecipeDraft, error) {
	for _, st := range recipeStages {
		if err := st(ctx, v); err != nil {
			return nil, err
		}
	}
	return &v.draft, nil
}

func requireFields(_ context.Context, v *validation) error {
	p := v.payload
	fields := []struct {
		name  string
		set   bool
		empty bool
	}{
		{"ingredients", p.Ingredients.Set, len(p.Ingredients.Value) == 0},
		{"tags", p.Tags.Set, len(p.Tags.Value) == 0},
		{"name", p.Name.Set, p.Name.Value == ""},
		{"image", p.Image.Set, p.Image.Value == ""},
		{"text", p.Text.Set, p.Text.Value == ""},
		{"cooking_time", p.CookingTime.Set, isEmptyRaw(p.CookingTime.Value)},
	}
	for _, f := range fields {
		if !f.set && v.mode == modeUpdate {
			continue
		}
		if !f.set || f.empty {
			return errs.MissingField(f.name)
		}
	}

	if p.Name.Set {
		name := p.Name.Value
		v.draft.Name = &name
	}
	if p.Text.Set {
		text := p.Text.Value
		v.draft.Text = &text
	}
	return nil
}

func checkCookingTime(_ context.Context, v *validation) error {
	if !v.payload.CookingTime.Set {
		return nil
	}
	n, ok := coercePositiveInt(v.payload.CookingTime.Value)
	if !ok {
		return errs.InvalidValue("cooking_time")
	}
	v.draft.CookingTime = &n
	return nil
}

func checkAmounts(_ context.Context, v *validation) error {
	if !v.payload.Ingredients.Set {
		return nil
	}
	for _, item := range v.payload.Ingredients.Value {
		if _, ok := coercePositiveInt(item.Amount); !ok {
			return errs.InvalidValue("amount")
		}
	}
	return nil
}

func checkDuplicateIngredients(_ context.Context, v *validation) error {
	if !v.payload.Ingredients.Set {
		return nil
	}
	seen := make(map[string]struct{}, len(v.payload.Ingredients.Value))
	for _, item := range v.payload.Ingredients.Value {
		key := strings.TrimSpace(item.ID)
		id, err := uuid.Parse(key)
		if err != nil {
			v.badIngredient = true
		} else {
			key = id.String()
			v.ingredientIDs = append(v.ingredientIDs, id)
		}
		if _, dup := seen[key]; dup {
			return errs.DuplicateIngredient()
		}
		seen[key] = struct{}{}
	}
	return nil
}

func checkIngredientsExist(ctx context.Context, v *validation) error {
	if !v.payload.Ingredients.Set {
		return nil
	}
	if v.badIngredient {
		return errs.UnknownIngredient()
	}
	n, err := v.catalog.CountIngredients(ctx, v.ingredientIDs)
	if err != nil {
		return err
	}
	if n != int64(len(v.ingredientIDs)) {
		return errs.UnknownIngredient()
	}

	amounts := make([]IngredientAmount, len(v.ingredientIDs))
	for i, item := range v.payload.Ingredients.Value {
		amount, _ := coercePositiveInt(item.Amount)
		amounts[i] = IngredientAmount{IngredientID: v.ingredientIDs[i], Amount: amount}
	}
	v.draft.Ingredients = amounts
	return nil
}

func checkTagsExist(ctx context.Context, v *validation) error {
	if !v.payload.Tags.Set {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(v.payload.Tags.Value))
	ids := make([]uuid.UUID, 0, len(v.payload.Tags.Value))
	for _, raw := range v.payload.Tags.Value {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return errs.UnknownTag()
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	n, err := v.catalog.CountTags(ctx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return errs.UnknownTag()
	}
	v.draft.Tags = ids
	return nil
}

func checkNameUnique(ctx context.Context, v *validation) error {
	if v.draft.Name == nil {
		return nil
	}
	taken, err := v.catalog.RecipeNameTaken(ctx, v.authorID, *v.draft.Name, v.recipeID)
	if err != nil {
		return err
	}
	if taken {
		return errs.DuplicateName()
	}
	return nil
}

func decodeImage(_ context.Context, v *validation) error {
	if !v.payload.Image.Set {
		return nil
	}
	img, err := DecodeImage(v.payload.Image.Value)
	if err != nil {
		return errs.InvalidImage(err)
	}
	v.draft.Image = img
	return nil
}

func isEmptyRaw(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) == 0 || bytes.Equal(s, []byte("null")) || bytes.Equal(s, []byte(`""`))
}

// coercePositiveInt accepts a JSON integer, an integral JSON float or a
// JSON string holding an integer, and requires 0 < n <= MaxInt32.
func coercePositiveInt(raw json.RawMessage) (int, bool) {
	s := string(bytes.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(str)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, false
		}
		if f < 1 || f > math.MaxInt32 {
			return 0, false
		}
		n = int64(f)
	}
	if n < 1 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}
