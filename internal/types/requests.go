package types

// IngredientLine is one (ingredient, amount) pair of a recipe draft
type IngredientLine struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"gte=1"`
}

// RecipeDraft is the full state of a recipe submitted on create or update
type RecipeDraft struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Text        string           `json:"text" validate:"required"`
	Image       string           `json:"image"`
	CookingTime int              `json:"cooking_time" validate:"gte=1"`
	Ingredients []IngredientLine `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint           `json:"tags" validate:"dive,required"`
}

// RecipeFilters narrows a recipe listing. All set filters must match.
type RecipeFilters struct {
	Author             string
	TagSlugs           []string
	FavoritedOnly      bool
	InShoppingCartOnly bool
	Limit              int
	Offset             int
}

// IngredientRow is one line of an administrative ingredient reload
type IngredientRow struct {
	Name            string `validate:"required,max=100"`
	MeasurementUnit string `validate:"required,max=50"`
}

// TagRow is one line of an administrative tag reload
type TagRow struct {
	Name  string `validate:"required,max=30"`
	Color string `validate:"required,hexcolor6"`
	Slug  string `validate:"required,max=50"`
}
