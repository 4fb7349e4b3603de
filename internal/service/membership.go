package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipService toggles a user's favorites and shopping cart entries.
// Each call is a single-row write keyed by the (user, recipe) unique index.
type MembershipService struct {
	db *gorm.DB
}

// NewMembershipService creates a new MembershipService instance
func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

func (s *MembershipService) AddFavorite(ctx context.Context, userID, recipeID uint) (*types.ShortRecipe, error) {
	row := &models.Favorite{RecipeUserLink: models.RecipeUserLink{UserID: userID, RecipeID: recipeID}}
	return s.add(ctx, row, userID, recipeID, "favorites")
}

func (s *MembershipService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, &models.Favorite{}, userID, recipeID, "favorites")
}

func (s *MembershipService) AddToCart(ctx context.Context, userID, recipeID uint) (*types.ShortRecipe, error) {
	row := &models.ShoppingCartItem{RecipeUserLink: models.RecipeUserLink{UserID: userID, RecipeID: recipeID}}
	return s.add(ctx, row, userID, recipeID, "shopping cart")
}

func (s *MembershipService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, &models.ShoppingCartItem{}, userID, recipeID, "shopping cart")
}

func (s *MembershipService) add(ctx context.Context, row interface{}, userID, recipeID uint, list string) (*types.ShortRecipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("recipe not found")
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	res := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return nil, s.missingReference(ctx, userID)
		}
		return nil, fmt.Errorf("failed to add recipe to %s: %w", list, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ConflictError(fmt.Sprintf("recipe already present in %s", list))
	}

	log.Printf("[MembershipService] Recipe %d added to %s", recipeID, list)
	short := shortRecipe(recipe)
	return &short, nil
}

// missingReference names the row a failed insert pointed at. The recipe was
// loaded just before, so an unknown user is checked first.
func (s *MembershipService) missingReference(ctx context.Context, userID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err == nil && count == 0 {
		return NotFoundError("user not found")
	}
	return NotFoundError("recipe not found")
}

func (s *MembershipService) remove(ctx context.Context, model interface{}, userID, recipeID uint, list string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if res.Error != nil {
		return fmt.Errorf("failed to remove recipe from %s: %w", list, res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundError(fmt.Sprintf("recipe not present in %s", list))
	}
	return nil
}
