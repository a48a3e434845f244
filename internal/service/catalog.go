package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
)

// CatalogService serves tags and ingredients and answers the existence
// questions the recipe validator asks.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns every tag ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag retrieves a tag by ID
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("tag")
		}
		return nil, err
	}
	return &tag, nil
}

// GetIngredient retrieves an ingredient with its unit.
func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).Preload("Unit").First(&ing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("ingredient")
		}
		return nil, err
	}
	return &ing, nil
}

// SearchIngredients returns every ingredient ordered by name when query is
// empty, otherwise the ranked matches of query.
func (s *CatalogService) SearchIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	dbQuery := s.db.WithContext(ctx).Preload("Unit").Order("name")

	if query == "" {
		var all []models.Ingredient
		if err := dbQuery.Find(&all).Error; err != nil {
			return nil, err
		}
		return all, nil
	}

	// sqlite LOWER() only folds ASCII, so other dialects hand the whole
	// catalog to the ranker
	if s.db.Dialector.Name() == "postgres" {
		dbQuery = dbQuery.Where("name ILIKE ?", "%"+escapeLike(query)+"%")
	}

	var candidates []models.Ingredient
	if err := dbQuery.Find(&candidates).Error; err != nil {
		return nil, err
	}

	ranked := RankIngredients(query, candidates)
	result := make([]models.Ingredient, len(ranked))
	for i := range ranked {
		result[i] = ranked[i].Ingredient
	}
	return result, nil
}

// CountIngredients counts the stored ingredients among ids.
func (s *CatalogService) CountIngredients(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

// CountTags counts the stored tags among ids.
func (s *CatalogService) CountTags(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

// RecipeNameTaken reports whether authorID has a recipe called name other
// than exclude.
func (s *CatalogService) RecipeNameTaken(ctx context.Context, authorID uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ? AND name = ?", authorID, name)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// IngredientImport is one record of an ingredient catalog file.
type IngredientImport struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ImportIngredients stores every missing ingredient and unit of items in
// one transaction and returns how many ingredients were created.
func (s *CatalogService) ImportIngredients(ctx context.Context, items []IngredientImport) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		units := make(map[string]uuid.UUID)
		for _, item := range items {
			name := strings.TrimSpace(item.Name)
			unitName := strings.TrimSpace(item.MeasurementUnit)
			if name == "" || unitName == "" {
				return &errs.Error{Kind: errs.KindInvalidValue, Field: "name", Message: "ingredient and unit names must not be empty"}
			}

			unitID, ok := units[unitName]
			if !ok {
				unit := models.Unit{Name: unitName}
				if err := tx.Where(models.Unit{Name: unitName}).FirstOrCreate(&unit).Error; err != nil {
					return err
				}
				unitID = unit.ID
				units[unitName] = unitID
			}

			ing := models.Ingredient{Name: name, UnitID: unitID}
			res := tx.Where(models.Ingredient{Name: name, UnitID: unitID}).FirstOrCreate(&ing)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// ImportTags stores the tags whose slug is not taken yet.
func (s *CatalogService) ImportTags(ctx context.Context, tags []models.Tag) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tags {
			tag := tags[i]
			if tag.Name == "" || tag.Slug == "" {
				return &errs.Error{Kind: errs.KindInvalidValue, Field: "slug", Message: "tag name and slug must not be empty"}
			}
			res := tx.Where(models.Tag{Slug: tag.Slug}).Attrs(models.Tag{Name: tag.Name, Color: tag.Color}).FirstOrCreate(&tag)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
