package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes    service.IRecipeService
	membership service.IMembershipService
	shopping   service.IShoppingService
	auth       middleware.TokenValidator
	limits     RecipeLimits
}

// RecipeLimits holds the optional rate limiters for recipe writes
type RecipeLimits struct {
	Create gin.HandlerFunc
	Update gin.HandlerFunc
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	membership service.IMembershipService,
	shopping service.IShoppingService,
	auth middleware.TokenValidator,
	limits RecipeLimits,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:    recipes,
		membership: membership,
		shopping:   shopping,
		auth:       auth,
		limits:     limits,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.auth), h.ListRecipes)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.GetRecipe)
		recipes.POST("", withLimit(required, h.limits.Create, h.CreateRecipe)...)
		recipes.PATCH("/:id", withLimit(required, h.limits.Update, h.UpdateRecipe)...)
		recipes.DELETE("/:id", required, h.DeleteRecipe)
		recipes.POST("/:id/favorite", required, h.AddFavorite)
		recipes.DELETE("/:id/favorite", required, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", required, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", required, h.RemoveFromCart)
	}
}

func withLimit(auth, limit, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{auth, handler}
	}
	return []gin.HandlerFunc{auth, limit, handler}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	filters := types.RecipeFilters{
		Author:             c.Query("author"),
		TagSlugs:           c.QueryArray("tags"),
		FavoritedOnly:      flag(c, "is_favorited"),
		InShoppingCartOnly: flag(c, "is_in_shopping_cart"),
		Limit:              limit,
		Offset:             offset,
	}

	views, total, err := h.recipes.ListRecipes(c.Request.Context(), middleware.Viewer(c), filters)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.Page[types.RecipeView]{Count: total, Results: views})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.recipes.GetRecipe(c.Request.Context(), id, middleware.Viewer(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var draft types.RecipeDraft
	if !bindJSON(c, &draft) {
		return
	}

	view, err := h.recipes.CreateRecipe(c.Request.Context(), userID, &draft)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var draft types.RecipeDraft
	if !bindJSON(c, &draft) {
		return
	}

	view, err := h.recipes.UpdateRecipe(c.Request.Context(), id, userID, &draft)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMember(c, h.membership.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMember(c, h.membership.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMember(c, h.membership.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMember(c, h.membership.RemoveFromCart)
}

type addFunc func(ctx context.Context, userID, recipeID uint) (*types.ShortRecipe, error)

type removeFunc func(ctx context.Context, userID, recipeID uint) error

func (h *RecipeHandler) addMember(c *gin.Context, add addFunc) {
	userID, _ := middleware.UserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	short, err := add(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, short)
}

func (h *RecipeHandler) removeMember(c *gin.Context, remove removeFunc) {
	userID, _ := middleware.UserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), userID, id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	doc, err := h.shopping.ShoppingListPDF(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, shoppinglist.FileName))
	c.Data(http.StatusOK, "application/pdf", doc)
}
