package models

import (
	"time"
)

// RecipeLink is the key set shared by rows that belong to one recipe.
type RecipeLink struct {
	ID       uint `gorm:"primarykey" json:"-"`
	RecipeID uint `gorm:"not null;index" json:"-"`
}

// RecipeUserLink is the key set shared by per-user recipe memberships. Each
// embedding table gets its own (user_id, recipe_id) unique index.
type RecipeUserLink struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UserID    uint      `gorm:"not null;index:,unique,composite:user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index:,unique,composite:user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RecipeIngredient struct {
	RecipeLink
	IngredientID uint       `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"-"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag keeps its row when the tag goes away; TagID becomes NULL.
type RecipeTag struct {
	RecipeLink
	TagID *uint `gorm:"index" json:"tag_id"`
	Tag   *Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:SET NULL" json:"-"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

type Favorite struct {
	RecipeUserLink
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingCartItem struct {
	RecipeUserLink
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}

// All lists every model, in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subscription{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCartItem{},
	}
}
