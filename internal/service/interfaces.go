package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/types"
)

// IRecipeService defines the interface for recipe composition and reads
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint, draft *types.RecipeDraft) (*types.RecipeView, error)
	UpdateRecipe(ctx context.Context, recipeID, viewerID uint, draft *types.RecipeDraft) (*types.RecipeView, error)
	DeleteRecipe(ctx context.Context, recipeID, viewerID uint) error
	GetRecipe(ctx context.Context, recipeID uint, viewerID *uint) (*types.RecipeView, error)
	ListRecipes(ctx context.Context, viewerID *uint, filters types.RecipeFilters) ([]types.RecipeView, int64, error)
}

// IMembershipService defines the interface for favorites and the shopping cart
type IMembershipService interface {
	AddFavorite(ctx context.Context, userID, recipeID uint) (*types.ShortRecipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	AddToCart(ctx context.Context, userID, recipeID uint) (*types.ShortRecipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uint) error
}

// ISubscriptionService defines the interface for following authors
type ISubscriptionService interface {
	Follow(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.SubscriptionView, error)
	Unfollow(ctx context.Context, userID, authorID uint) error
	ListSubscriptions(ctx context.Context, userID uint, recipesLimit, limit, offset int) ([]types.SubscriptionView, int64, error)
}

// IShoppingService defines the interface for shopping list export
type IShoppingService interface {
	Aggregate(ctx context.Context, userID uint) ([]types.ShoppingItem, error)
	ShoppingListPDF(ctx context.Context, userID uint) ([]byte, error)
}

// ILookupService defines the interface for read-only tag and ingredient lookups
type ILookupService interface {
	ListTags(ctx context.Context) ([]types.TagView, error)
	GetTag(ctx context.Context, id uint) (*types.TagView, error)
	SearchIngredients(ctx context.Context, prefix string) ([]types.IngredientView, error)
	GetIngredient(ctx context.Context, id uint) (*types.IngredientView, error)
}

// ImageStore persists inline recipe images and returns a reference to them
type ImageStore interface {
	Save(ctx context.Context, dataURI string) (string, error)
	Delete(ctx context.Context, url string) error
}

var (
	_ IRecipeService       = (*RecipeService)(nil)
	_ IMembershipService   = (*MembershipService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ IShoppingService     = (*ShoppingService)(nil)
	_ ILookupService       = (*Store)(nil)
	_ ImageStore           = (*S3ImageStore)(nil)
)
