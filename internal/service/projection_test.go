package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func names(views []types.RecipeView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}

func TestListRecipesOrderingAndPaging(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	alice := testhelpers.CreateUser(t, db, "alice")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	line := []testhelpers.Line{{Ingredient: salt, Amount: 1}}

	for _, name := range []string{"First", "Second", "Third", "Fourth"} {
		testhelpers.CreateRecipe(t, db, alice, name, line)
	}
	ctx := context.Background()

	views, total, err := svc.ListRecipes(ctx, nil, types.RecipeFilters{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"Fourth", "Third"}, names(views))

	views, total, err = svc.ListRecipes(ctx, nil, types.RecipeFilters{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"Second", "First"}, names(views))

	views, _, err = svc.ListRecipes(ctx, nil, types.RecipeFilters{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NotNil(t, views)
}

func TestListRecipesFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	breakfast := testhelpers.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast")
	dinner := testhelpers.CreateTag(t, db, "Dinner", "#8775D2", "dinner")
	line := []testhelpers.Line{{Ingredient: salt, Amount: 1}}

	porridge := testhelpers.CreateRecipe(t, db, alice, "Porridge", line, breakfast)
	testhelpers.CreateRecipe(t, db, alice, "Stew", line, dinner)
	omelette := testhelpers.CreateRecipe(t, db, bob, "Omelette", line, breakfast, dinner)
	testhelpers.CreateRecipe(t, db, bob, "Toast", line)

	testhelpers.Favorite(t, db, alice, omelette)
	testhelpers.AddToCart(t, db, alice, porridge)
	ctx := context.Background()

	tests := []struct {
		name     string
		viewer   *uint
		filters  types.RecipeFilters
		expected []string
	}{
		{"no filters", nil, types.RecipeFilters{}, []string{"Toast", "Omelette", "Stew", "Porridge"}},
		{"author", nil, types.RecipeFilters{Author: "bob"}, []string{"Toast", "Omelette"}},
		{"author is case insensitive", nil, types.RecipeFilters{Author: "ALICE"}, []string{"Stew", "Porridge"}},
		{"unknown author", nil, types.RecipeFilters{Author: "carol"}, []string{}},
		{"single tag", nil, types.RecipeFilters{TagSlugs: []string{"breakfast"}}, []string{"Omelette", "Porridge"}},
		{"any of several tags, no duplicates", nil, types.RecipeFilters{TagSlugs: []string{"breakfast", "dinner"}}, []string{"Omelette", "Stew", "Porridge"}},
		{"author and tag", nil, types.RecipeFilters{Author: "bob", TagSlugs: []string{"dinner"}}, []string{"Omelette"}},
		{"favorited", &alice.ID, types.RecipeFilters{FavoritedOnly: true}, []string{"Omelette"}},
		{"in cart", &alice.ID, types.RecipeFilters{InShoppingCartOnly: true}, []string{"Porridge"}},
		{"favorited and in cart", &alice.ID, types.RecipeFilters{FavoritedOnly: true, InShoppingCartOnly: true}, []string{}},
		{"viewer filters ignored for anonymous", nil, types.RecipeFilters{FavoritedOnly: true}, []string{"Toast", "Omelette", "Stew", "Porridge"}},
		{"another user's favorites", &bob.ID, types.RecipeFilters{FavoritedOnly: true}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, total, err := svc.ListRecipes(ctx, tt.viewer, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(views))
			assert.Equal(t, int64(len(tt.expected)), total)
		})
	}
}

func TestViewerFlags(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	line := []testhelpers.Line{{Ingredient: salt, Amount: 1}}

	recipe := testhelpers.CreateRecipe(t, db, bob, "Omelette", line)
	testhelpers.Favorite(t, db, alice, recipe)
	testhelpers.AddToCart(t, db, alice, recipe)
	testhelpers.Follow(t, db, alice, bob)
	ctx := context.Background()

	view, err := svc.GetRecipe(ctx, recipe.ID, &alice.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.True(t, view.IsInShoppingCart)
	assert.True(t, view.Author.IsSubscribed)

	view, err = svc.GetRecipe(ctx, recipe.ID, &bob.ID)
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.False(t, view.Author.IsSubscribed)

	view, err = svc.GetRecipe(ctx, recipe.ID, nil)
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.False(t, view.Author.IsSubscribed)

	views, _, err := svc.ListRecipes(ctx, &alice.ID, types.RecipeFilters{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsFavorited)
	assert.True(t, views[0].Author.IsSubscribed)
}

func TestGetRecipeNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	_, err := svc.GetRecipe(context.Background(), 42, nil)
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestDeletedTagDisappearsFromRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	alice := testhelpers.CreateUser(t, db, "alice")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	breakfast := testhelpers.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast")
	dinner := testhelpers.CreateTag(t, db, "Dinner", "#8775D2", "dinner")

	recipe := testhelpers.CreateRecipe(t, db, alice, "Omelette",
		[]testhelpers.Line{{Ingredient: salt, Amount: 1}}, breakfast, dinner)

	require.NoError(t, db.Delete(&models.Tag{}, breakfast.ID).Error)

	view, err := svc.GetRecipe(context.Background(), recipe.ID, nil)
	require.NoError(t, err)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "dinner", view.Tags[0].Slug)

	var links int64
	require.NoError(t, db.Model(&models.RecipeTag{}).Where("recipe_id = ?", recipe.ID).Count(&links).Error)
	assert.Equal(t, int64(2), links)
}
