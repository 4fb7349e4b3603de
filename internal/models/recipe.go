package models

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:200;not null;index:idx_recipe_name_text,unique" json:"name"`
	Text        string    `gorm:"type:text;not null;index:idx_recipe_name_text,unique" json:"text"`
	Image       string    `gorm:"size:255" json:"image"`
	CookingTime int       `gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1" json:"cooking_time"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []RecipeTag        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites   []Favorite         `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	CartItems   []ShoppingCartItem `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`

	// Per-viewer flags, filled by the listing query only.
	IsFavorited      bool `gorm:"->;-:migration" json:"is_favorited"`
	IsInShoppingCart bool `gorm:"->;-:migration" json:"is_in_shopping_cart"`
}

func (Recipe) TableName() string {
	return "recipes"
}
