package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CreateUser inserts a user named username
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()

	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ing
}

func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", slug, err)
	}
	return tag
}

// Line is an ingredient reference used by CreateRecipe
type Line struct {
	Ingredient models.Ingredient
	Amount     int
}

// CreateRecipe writes a recipe with its links directly, bypassing the
// composition service. created_at is spaced out so listings order
// deterministically.
func CreateRecipe(t *testing.T, db *gorm.DB, author models.User, name string, lines []Line, tags ...models.Tag) models.Recipe {
	t.Helper()

	var count int64
	db.Model(&models.Recipe{}).Count(&count)

	recipe := models.Recipe{
		Name:        name,
		Text:        fmt.Sprintf("How to make %s", name),
		CookingTime: 10,
		AuthorID:    author.ID,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(count) * time.Minute),
	}
	if err := db.Omit("Author").Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}

	for _, line := range lines {
		link := models.RecipeIngredient{
			RecipeLink:   models.RecipeLink{RecipeID: recipe.ID},
			IngredientID: line.Ingredient.ID,
			Amount:       line.Amount,
		}
		if err := db.Omit("Ingredient").Create(&link).Error; err != nil {
			t.Fatalf("failed to link ingredient: %v", err)
		}
	}
	for i := range tags {
		link := models.RecipeTag{
			RecipeLink: models.RecipeLink{RecipeID: recipe.ID},
			TagID:      &tags[i].ID,
		}
		if err := db.Omit("Tag").Create(&link).Error; err != nil {
			t.Fatalf("failed to link tag: %v", err)
		}
	}
	return recipe
}

// Favorite and AddToCart insert membership rows directly
func Favorite(t *testing.T, db *gorm.DB, user models.User, recipe models.Recipe) {
	t.Helper()
	row := models.Favorite{RecipeUserLink: models.RecipeUserLink{UserID: user.ID, RecipeID: recipe.ID}}
	if err := db.Omit("User").Create(&row).Error; err != nil {
		t.Fatalf("failed to favorite recipe: %v", err)
	}
}

func AddToCart(t *testing.T, db *gorm.DB, user models.User, recipe models.Recipe) {
	t.Helper()
	row := models.ShoppingCartItem{RecipeUserLink: models.RecipeUserLink{UserID: user.ID, RecipeID: recipe.ID}}
	if err := db.Omit("User").Create(&row).Error; err != nil {
		t.Fatalf("failed to add recipe to cart: %v", err)
	}
}

func Follow(t *testing.T, db *gorm.DB, user, author models.User) {
	t.Helper()
	row := models.Subscription{UserID: user.ID, AuthorID: author.ID}
	if err := db.Omit("User", "Author").Create(&row).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
}
