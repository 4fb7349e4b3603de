package service

import (
	"context"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// ShoppingService turns a user's cart into a shopping list
type ShoppingService struct {
	db     *gorm.DB
	layout shoppinglist.Layout
}

// NewShoppingService creates a new ShoppingService instance
func NewShoppingService(db *gorm.DB, layout shoppinglist.Layout) *ShoppingService {
	return &ShoppingService{db: db, layout: layout}
}

// Aggregate sums every ingredient line of every carted recipe, grouped by
// ingredient name and unit. Two ingredient rows sharing name and unit land in
// the same group.
func (s *ShoppingService) Aggregate(ctx context.Context, userID uint) ([]types.ShoppingItem, error) {
	items := []types.ShoppingItem{}
	err := s.db.WithContext(ctx).
		Table("shopping_cart_items").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_items.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	return items, nil
}

// ShoppingListPDF aggregates the cart and renders it with a renderer built
// for this call only.
func (s *ShoppingService) ShoppingListPDF(ctx context.Context, userID uint) ([]byte, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return shoppinglist.NewRenderer(s.layout).Render(items)
}
