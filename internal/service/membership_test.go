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
)

func TestMembership(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewMembershipService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Brine", []testhelpers.Line{{Ingredient: salt, Amount: 5}})
	ctx := context.Background()

	lists := []struct {
		name   string
		model  interface{}
		add    func(ctx context.Context, userID, recipeID uint) error
		remove func(ctx context.Context, userID, recipeID uint) error
	}{
		{
			name:  "favorites",
			model: &models.Favorite{},
			add: func(ctx context.Context, userID, recipeID uint) error {
				short, err := svc.AddFavorite(ctx, userID, recipeID)
				if err == nil {
					assert.Equal(t, "Brine", short.Name)
					assert.Equal(t, recipeID, short.ID)
				}
				return err
			},
			remove: svc.RemoveFavorite,
		},
		{
			name:  "shopping cart",
			model: &models.ShoppingCartItem{},
			add: func(ctx context.Context, userID, recipeID uint) error {
				short, err := svc.AddToCart(ctx, userID, recipeID)
				if err == nil {
					assert.Equal(t, 10, short.CookingTime)
				}
				return err
			},
			remove: svc.RemoveFromCart,
		},
	}

	for _, list := range lists {
		t.Run(list.name, func(t *testing.T) {
			require.NoError(t, list.add(ctx, alice.ID, recipe.ID))

			err := list.add(ctx, alice.ID, recipe.ID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, service.ErrConflict))
			assert.Contains(t, err.Error(), "already present")
			assert.Equal(t, int64(1), countRows(t, db, list.model))

			require.NoError(t, list.remove(ctx, alice.ID, recipe.ID))
			assert.Zero(t, countRows(t, db, list.model))

			err = list.remove(ctx, alice.ID, recipe.ID)
			assert.True(t, errors.Is(err, service.ErrNotFound))

			err = list.add(ctx, alice.ID, 9999)
			assert.True(t, errors.Is(err, service.ErrNotFound))
		})
	}
}

func TestMembershipIsPerUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewMembershipService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Brine", []testhelpers.Line{{Ingredient: salt, Amount: 5}})
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, bob.ID, recipe.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), countRows(t, db, &models.ShoppingCartItem{}))

	err = svc.RemoveFavorite(ctx, bob.ID, recipe.ID)
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestMembershipUnknownUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewMembershipService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Brine", []testhelpers.Line{{Ingredient: salt, Amount: 5}})
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, 9999, recipe.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotFound))
	assert.Contains(t, err.Error(), "user not found")

	_, err = svc.AddToCart(ctx, 9999, recipe.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")

	assert.Zero(t, countRows(t, db, &models.Favorite{}))
	assert.Zero(t, countRows(t, db, &models.ShoppingCartItem{}))
}
