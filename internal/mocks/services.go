package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uint, draft *types.RecipeDraft) (*types.RecipeView, error) {
	args := m.Called(ctx, authorID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeView), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, recipeID, viewerID uint, draft *types.RecipeDraft) (*types.RecipeView, error) {
	args := m.Called(ctx, recipeID, viewerID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeView), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, recipeID, viewerID uint) error {
	args := m.Called(ctx, recipeID, viewerID)
	return args.Error(0)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, recipeID uint, viewerID *uint) (*types.RecipeView, error) {
	args := m.Called(ctx, recipeID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeView), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, viewerID *uint, filters types.RecipeFilters) ([]types.RecipeView, int64, error) {
	args := m.Called(ctx, viewerID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.RecipeView), args.Get(1).(int64), args.Error(2)
}

// MockMembershipService is a mock implementation of the membership service
type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) AddFavorite(ctx context.Context, userID, recipeID uint) (*types.ShortRecipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ShortRecipe), args.Error(1)
}

func (m *MockMembershipService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockMembershipService) AddToCart(ctx context.Context, userID, recipeID uint) (*types.ShortRecipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ShortRecipe), args.Error(1)
}

func (m *MockMembershipService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

// MockShoppingService is a mock implementation of the shopping service
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) Aggregate(ctx context.Context, userID uint) ([]types.ShoppingItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ShoppingItem), args.Error(1)
}

func (m *MockShoppingService) ShoppingListPDF(ctx context.Context, userID uint) ([]byte, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockTokenValidator accepts tokens registered with On("ValidateToken", token)
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
