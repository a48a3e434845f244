package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag labels recipes, e.g. "breakfast".
type Tag struct {
	ID    uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string    `gorm:"size:7" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Unit is a unit of measure for ingredients.
type Unit struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string    `gorm:"size:10;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Ingredient is unique per (name, unit).
type Ingredient struct {
	ID     uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name   string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	UnitID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_ingredient_name_unit" json:"-"`
	Unit   Unit      `gorm:"foreignKey:UnitID" json:"-"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Recipe names are unique per author.
type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	AuthorID    uuid.UUID          `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_author_name" json:"-"`
	Author      User               `gorm:"foreignKey:AuthorID" json:"-"`
	Name        string             `gorm:"size:200;not null;uniqueIndex:idx_recipe_author_name" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null;check:cooking_time > 0" json:"cooking_time"`
	Image       string             `gorm:"size:255" json:"image"`
	PubDate     time.Time          `gorm:"not null;index" json:"pub_date"`
	Tags        []Tag              `gorm:"-" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.PubDate.IsZero() {
		r.PubDate = time.Now().UTC()
	}
	return nil
}

// RecipeIngredient links a recipe to an ingredient with an amount.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"-"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
	Amount       int        `gorm:"not null;check:amount > 0" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// RecipeTag is the join row between recipes and tags.
type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:varchar(36);primarykey"`
	TagID    uuid.UUID `gorm:"type:varchar(36);primarykey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
