package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store reads the ingredient and tag lookup tables and resolves the ids
// recipe drafts point at.
type Store struct {
	db       *gorm.DB
	validate *Validator
}

// NewStore creates a new Store instance
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		validate: NewValidator(),
	}
}

// ResolveIngredients loads every id in one query. Any id that does not
// resolve fails the whole call with a ReferenceError naming it.
func (s *Store) ResolveIngredients(tx *gorm.DB, ids []uint) (map[uint]models.Ingredient, error) {
	var found []models.Ingredient
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve ingredients: %w", err)
		}
	}

	byID := make(map[uint]models.Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}
	if missing := missingIDs(ids, byID); len(missing) > 0 {
		return nil, ReferenceError("ingredient", missing)
	}
	return byID, nil
}

// ResolveTags follows the same policy as ResolveIngredients: unknown ids are rejected.
func (s *Store) ResolveTags(tx *gorm.DB, ids []uint) (map[uint]models.Tag, error) {
	var found []models.Tag
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve tags: %w", err)
		}
	}

	byID := make(map[uint]models.Tag, len(found))
	for _, tag := range found {
		byID[tag.ID] = tag
	}
	if missing := missingIDs(ids, byID); len(missing) > 0 {
		return nil, ReferenceError("tag", missing)
	}
	return byID, nil
}

func missingIDs[T any](ids []uint, found map[uint]T) []uint {
	var missing []uint
	seen := make(map[uint]bool)
	for _, id := range ids {
		if _, ok := found[id]; !ok && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// ListTags returns every tag ordered by name
func (s *Store) ListTags(ctx context.Context) ([]types.TagView, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	views := make([]types.TagView, 0, len(tags))
	for _, tag := range tags {
		views = append(views, tagView(tag))
	}
	return views, nil
}

func (s *Store) GetTag(ctx context.Context, id uint) (*types.TagView, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("tag not found")
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	view := tagView(tag)
	return &view, nil
}

// SearchIngredients matches a case-insensitive name prefix. An empty prefix
// lists everything.
func (s *Store) SearchIngredients(ctx context.Context, prefix string) ([]types.IngredientView, error) {
	query := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if prefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, strings.ToLower(escapeLike(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	views := make([]types.IngredientView, 0, len(ingredients))
	for _, ing := range ingredients {
		views = append(views, ingredientView(ing))
	}
	return views, nil
}

func (s *Store) GetIngredient(ctx context.Context, id uint) (*types.IngredientView, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("ingredient not found")
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	view := ingredientView(ing)
	return &view, nil
}

// ReloadIngredients inserts rows that are not present yet. Existing
// (name, unit) pairs are left alone so recipes keep pointing at them.
// Returns the number of rows inserted.
func (s *Store) ReloadIngredients(ctx context.Context, rows []types.IngredientRow) (int64, error) {
	batch := make([]models.Ingredient, 0, len(rows))
	for i, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.MeasurementUnit = strings.TrimSpace(row.MeasurementUnit)
		if err := s.validate.Validate(row); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		batch = append(batch, models.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	var inserted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).CreateInBatches(&batch, 500)
		inserted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reload ingredients: %w", err)
	}

	log.Printf("[Store] Loaded %d new ingredients (%d rows read)", inserted, len(rows))
	return inserted, nil
}

// ReloadTags upserts tags by slug, refreshing name and color.
func (s *Store) ReloadTags(ctx context.Context, rows []types.TagRow) (int64, error) {
	batch := make([]models.Tag, 0, len(rows))
	for i, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.Color = strings.ToUpper(strings.TrimSpace(row.Color))
		row.Slug = strings.TrimSpace(row.Slug)
		if err := s.validate.Validate(row); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		batch = append(batch, models.Tag{Name: row.Name, Color: row.Color, Slug: row.Slug})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	var written int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "color"}),
		}).Create(&batch)
		written = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ConflictErrorWrap("tag name already used by another slug", err)
		}
		return 0, fmt.Errorf("failed to reload tags: %w", err)
	}

	log.Printf("[Store] Loaded %d tags", written)
	return written, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func tagView(tag models.Tag) types.TagView {
	return types.TagView{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

func ingredientView(ing models.Ingredient) types.IngredientView {
	return types.IngredientView{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}
}
