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

// SubscriptionService maintains who follows whom
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionService instance
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Follow subscribes userID to authorID and returns the followed author with
// up to recipesLimit of their newest recipes (0 means all).
func (s *SubscriptionService) Follow(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.SubscriptionView, error) {
	if userID == authorID {
		return nil, ConflictError("cannot follow self")
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	res := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Subscription{UserID: userID, AuthorID: authorID})
	if res.Error != nil {
		// The author was just loaded, so the follower is the missing row
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return nil, NotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to follow user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ConflictError("already following")
	}

	log.Printf("[SubscriptionService] User %d now follows %d", userID, authorID)

	views, err := s.annotate(ctx, []authorRow{{User: author, RecipesCount: -1}}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *SubscriptionService) Unfollow(ctx context.Context, userID, authorID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to unfollow user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundError("not following")
	}
	return nil
}

type authorRow struct {
	models.User
	RecipesCount int64
}

// ListSubscriptions pages through the authors userID follows, ordered by
// username. Each carries its recipe count and a recipesLimit-truncated sample
// of recent recipes.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uint, recipesLimit, limit, offset int) ([]types.SubscriptionView, int64, error) {
	followed := s.db.Model(&models.Subscription{}).Select("author_id").Where("user_id = ?", userID)
	query := s.db.WithContext(ctx).Model(&models.User{}).
		Where("users.id IN (?)", followed).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	page := query.
		Select("users.*, (SELECT COUNT(*) FROM recipes WHERE recipes.author_id = users.id) AS recipes_count").
		Order("users.username").Order("users.id")
	if limit > 0 {
		page = page.Limit(limit)
	}
	if offset > 0 {
		page = page.Offset(offset)
	}

	var rows []authorRow
	if err := page.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	views, err := s.annotate(ctx, rows, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// annotate attaches recent recipes to every author with a single query. A
// negative RecipesCount is filled from the fetched recipes.
func (s *SubscriptionService) annotate(ctx context.Context, rows []authorRow, recipesLimit int) ([]types.SubscriptionView, error) {
	views := make([]types.SubscriptionView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id IN ?", ids).
		Order("created_at DESC").Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load author recipes: %w", err)
	}

	byAuthor := make(map[uint][]types.ShortRecipe, len(rows))
	counts := make(map[uint]int64, len(rows))
	for _, recipe := range recipes {
		counts[recipe.AuthorID]++
		if recipesLimit > 0 && len(byAuthor[recipe.AuthorID]) >= recipesLimit {
			continue
		}
		byAuthor[recipe.AuthorID] = append(byAuthor[recipe.AuthorID], shortRecipe(recipe))
	}

	for _, row := range rows {
		sample := byAuthor[row.ID]
		if sample == nil {
			sample = []types.ShortRecipe{}
		}
		count := row.RecipesCount
		if count < 0 {
			count = counts[row.ID]
		}
		views = append(views, types.SubscriptionView{
			AuthorView:   authorView(row.User, true),
			Recipes:      sample,
			RecipesCount: count,
		})
	}
	return views, nil
}
