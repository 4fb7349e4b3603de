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

// RecipeService writes recipes together with their ingredient and tag
// associations, and serves the per-viewer read projection.
type RecipeService struct {
	db       *gorm.DB
	store    *Store
	validate *Validator
	images   ImageStore
}

// NewRecipeService creates a new RecipeService instance. images may be nil,
// in which case inline image uploads are rejected.
func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:       db,
		store:    NewStore(db),
		validate: NewValidator(),
		images:   images,
	}
}

// CreateRecipe validates the draft, resolves every referenced ingredient and
// tag, and writes the recipe with its full association set in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, draft *types.RecipeDraft) (*types.RecipeView, error) {
	lines, tagIDs, err := s.prepare(draft)
	if err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, draft.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        draft.Name,
		Text:        draft.Text,
		Image:       image,
		CookingTime: draft.CookingTime,
		AuthorID:    authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resolve(tx, lines, tagIDs); err != nil {
			return err
		}
		if err := ensureUniqueRecipe(tx, draft.Name, draft.Text, 0); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return translateWriteError(err)
		}
		return writeAssociations(tx, recipe.ID, lines, tagIDs)
	})
	if err != nil {
		s.discardImage(ctx, draft.Image, image)
		return nil, err
	}

	log.Printf("[RecipeService] Created recipe %d by user %d", recipe.ID, authorID)
	return s.GetRecipe(ctx, recipe.ID, &authorID)
}

// UpdateRecipe replaces the recipe's scalar fields and both association sets
// wholesale. Nothing is written unless the whole update succeeds.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, viewerID uint, draft *types.RecipeDraft) (*types.RecipeView, error) {
	lines, tagIDs, err := s.prepare(draft)
	if err != nil {
		return nil, err
	}

	// Ownership is checked before anything is uploaded.
	if _, err := s.requireAuthor(s.db.WithContext(ctx), recipeID, viewerID); err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, draft.Image)
	if err != nil {
		return nil, err
	}

	var previous string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.requireAuthor(tx, recipeID, viewerID)
		if err != nil {
			return err
		}
		previous = current.Image
		if err := s.resolve(tx, lines, tagIDs); err != nil {
			return err
		}
		if err := ensureUniqueRecipe(tx, draft.Name, draft.Text, recipeID); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         draft.Name,
			"text":         draft.Text,
			"cooking_time": draft.CookingTime,
		}
		if image != "" {
			updates["image"] = image
		}
		if err := tx.Model(&models.Recipe{ID: recipeID}).Updates(updates).Error; err != nil {
			return translateWriteError(err)
		}

		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe tags: %w", err)
		}
		return writeAssociations(tx, recipeID, lines, tagIDs)
	})
	if err != nil {
		s.discardImage(ctx, draft.Image, image)
		return nil, err
	}
	if previous != image {
		s.discardImage(ctx, draft.Image, previous)
	}

	log.Printf("[RecipeService] Updated recipe %d", recipeID)
	return s.GetRecipe(ctx, recipeID, &viewerID)
}

// DeleteRecipe removes the recipe and every row that belongs to it
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, viewerID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.requireAuthor(tx, recipeID, viewerID); err != nil {
			return err
		}
		children := []interface{}{
			&models.RecipeIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCartItem{},
		}
		for _, child := range children {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete recipe children: %w", err)
			}
		}
		if err := tx.Delete(&models.Recipe{}, recipeID).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[RecipeService] Deleted recipe %d", recipeID)
	return nil
}

// prepare validates the draft and collapses repeated ids. A repeated
// ingredient keeps its first position and takes the last amount given.
func (s *RecipeService) prepare(draft *types.RecipeDraft) ([]types.IngredientLine, []uint, error) {
	if draft == nil {
		return nil, nil, ValidationError("recipe draft is required", nil)
	}
	if err := s.validate.Validate(draft); err != nil {
		return nil, nil, err
	}

	lines := make([]types.IngredientLine, 0, len(draft.Ingredients))
	position := make(map[uint]int, len(draft.Ingredients))
	for _, line := range draft.Ingredients {
		if i, ok := position[line.ID]; ok {
			lines[i].Amount = line.Amount
			continue
		}
		position[line.ID] = len(lines)
		lines = append(lines, line)
	}

	tagIDs := make([]uint, 0, len(draft.Tags))
	seen := make(map[uint]bool, len(draft.Tags))
	for _, id := range draft.Tags {
		if !seen[id] {
			seen[id] = true
			tagIDs = append(tagIDs, id)
		}
	}
	return lines, tagIDs, nil
}

func (s *RecipeService) resolve(tx *gorm.DB, lines []types.IngredientLine, tagIDs []uint) error {
	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.ID
	}
	if _, err := s.store.ResolveIngredients(tx, ids); err != nil {
		return err
	}
	_, err := s.store.ResolveTags(tx, tagIDs)
	return err
}

func (s *RecipeService) requireAuthor(tx *gorm.DB, recipeID, viewerID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := tx.Select("id", "author_id", "image").First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("recipe not found")
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe.AuthorID != viewerID {
		return nil, ForbiddenError("only the author can change this recipe")
	}
	return &recipe, nil
}

func (s *RecipeService) storeImage(ctx context.Context, image string) (string, error) {
	if !IsImageDataURI(image) {
		return image, nil
	}
	if s.images == nil {
		return "", ValidationError("invalid image", map[string]string{"image": "image uploads are not enabled"})
	}
	return s.images.Save(ctx, image)
}

// discardImage drops a stored image that no recipe points at any more: an
// upload whose write failed, or the one a new upload replaced.
func (s *RecipeService) discardImage(ctx context.Context, submitted, stored string) {
	if s.images == nil || !IsImageDataURI(submitted) || stored == "" {
		return
	}
	if err := s.images.Delete(ctx, stored); err != nil {
		log.Printf("[RecipeService] Failed to remove orphaned image %s: %v", stored, err)
	}
}

func ensureUniqueRecipe(tx *gorm.DB, name, text string, exceptID uint) error {
	var count int64
	query := tx.Model(&models.Recipe{}).Where("name = ? AND text = ?", name, text)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check recipe uniqueness: %w", err)
	}
	if count > 0 {
		return ConflictError("a recipe with this name and text already exists")
	}
	return nil
}

func writeAssociations(tx *gorm.DB, recipeID uint, lines []types.IngredientLine, tagIDs []uint) error {
	links := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		links[i] = models.RecipeIngredient{
			RecipeLink:   models.RecipeLink{RecipeID: recipeID},
			IngredientID: line.ID,
			Amount:       line.Amount,
		}
	}
	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return translateWriteError(err)
	}

	if len(tagIDs) == 0 {
		return nil
	}
	tags := make([]models.RecipeTag, len(tagIDs))
	for i := range tagIDs {
		tags[i] = models.RecipeTag{
			RecipeLink: models.RecipeLink{RecipeID: recipeID},
			TagID:      &tagIDs[i],
		}
	}
	if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
		return translateWriteError(err)
	}
	return nil
}

// translateWriteError maps constraint failures the pre-checks could not see
// (concurrent writers) onto domain errors.
func translateWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ConflictErrorWrap("a recipe with this name and text already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Kind: KindReference, Message: "referenced row no longer exists", cause: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &Error{Kind: KindValidation, Message: "value out of range", cause: err}
	}
	return fmt.Errorf("failed to write recipe: %w", err)
}
