package service

import (
	"context"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// The viewer flags are correlated EXISTS tests in the listing SELECT. An
// anonymous viewer is bound as id 0, which matches no membership row.
const viewerFlagsSelect = `recipes.*,
	EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?) AS is_favorited,
	EXISTS (SELECT 1 FROM shopping_cart_items WHERE shopping_cart_items.recipe_id = recipes.id AND shopping_cart_items.user_id = ?) AS is_in_shopping_cart`

// ListRecipes returns one page of recipes, newest first, and the total number
// of recipes matching the filters. Favorited and in-cart filters only apply to
// an authenticated viewer.
func (s *RecipeService) ListRecipes(ctx context.Context, viewerID *uint, filters types.RecipeFilters) ([]types.RecipeView, int64, error) {
	query := s.filtered(ctx, viewerID, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	page := query.Order("recipes.created_at DESC").Order("recipes.id DESC")
	if filters.Limit > 0 {
		page = page.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		page = page.Offset(filters.Offset)
	}

	views, err := s.loadViews(ctx, page, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetRecipe returns a single recipe view, or NotFound
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uint, viewerID *uint) (*types.RecipeView, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("recipes.id = ?", recipeID)
	views, err := s.loadViews(ctx, query, viewerID)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, NotFoundError("recipe not found")
	}
	return &views[0], nil
}

func (s *RecipeService) filtered(ctx context.Context, viewerID *uint, filters types.RecipeFilters) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filters.Author != "" {
		authors := s.db.Model(&models.User{}).Select("id").Where("LOWER(username) = LOWER(?)", filters.Author)
		query = query.Where("recipes.author_id IN (?)", authors)
	}
	if len(filters.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filters.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if viewerID != nil {
		if filters.FavoritedOnly {
			query = query.Where("EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?)", *viewerID)
		}
		if filters.InShoppingCartOnly {
			query = query.Where("EXISTS (SELECT 1 FROM shopping_cart_items WHERE shopping_cart_items.recipe_id = recipes.id AND shopping_cart_items.user_id = ?)", *viewerID)
		}
	}

	return query.Session(&gorm.Session{})
}

// loadViews runs the flagged SELECT over query and batch-loads authors,
// ingredient lines and tags for the whole result.
func (s *RecipeService) loadViews(ctx context.Context, query *gorm.DB, viewerID *uint) ([]types.RecipeView, error) {
	var viewer uint
	if viewerID != nil {
		viewer = *viewerID
	}

	var recipes []models.Recipe
	err := query.
		Select(viewerFlagsSelect, viewer, viewer).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("Tags.Tag").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	subscribed, err := s.subscribedAuthors(ctx, viewerID, recipes)
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, recipeView(recipe, subscribed[recipe.AuthorID]))
	}
	return views, nil
}

func (s *RecipeService) subscribedAuthors(ctx context.Context, viewerID *uint, recipes []models.Recipe) (map[uint]bool, error) {
	subscribed := make(map[uint]bool)
	if viewerID == nil || len(recipes) == 0 {
		return subscribed, nil
	}

	authorIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	var followed []uint
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", *viewerID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range followed {
		subscribed[id] = true
	}
	return subscribed, nil
}

func recipeView(recipe models.Recipe, authorSubscribed bool) types.RecipeView {
	view := types.RecipeView{
		ID:               recipe.ID,
		Tags:             make([]types.TagView, 0, len(recipe.Tags)),
		Author:           authorView(recipe.Author, authorSubscribed),
		Ingredients:      make([]types.RecipeIngredientView, 0, len(recipe.Ingredients)),
		IsFavorited:      recipe.IsFavorited,
		IsInShoppingCart: recipe.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
	for _, link := range recipe.Ingredients {
		view.Ingredients = append(view.Ingredients, types.RecipeIngredientView{
			ID:              link.IngredientID,
			Name:            link.Ingredient.Name,
			MeasurementUnit: link.Ingredient.MeasurementUnit,
			Amount:          link.Amount,
		})
	}
	for _, link := range recipe.Tags {
		// the tag was deleted; the link row outlives it
		if link.Tag == nil {
			continue
		}
		view.Tags = append(view.Tags, tagView(*link.Tag))
	}
	return view
}

func authorView(user models.User, subscribed bool) types.AuthorView {
	return types.AuthorView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

func shortRecipe(recipe models.Recipe) types.ShortRecipe {
	return types.ShortRecipe{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
