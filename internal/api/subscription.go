package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type SubscriptionHandler struct {
	subscriptions service.ISubscriptionService
	auth          middleware.TokenValidator
}

func NewSubscriptionHandler(subscriptions service.ISubscriptionService, auth middleware.TokenValidator) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, auth: auth}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users", middleware.AuthMiddleware(h.auth))
	{
		users.GET("/subscriptions", h.ListSubscriptions)
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	recipesLimit, ok := recipesLimit(c)
	if !ok {
		return
	}
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	views, total, err := h.subscriptions.ListSubscriptions(c.Request.Context(), userID, recipesLimit, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.Page[types.SubscriptionView]{Count: total, Results: views})
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	recipesLimit, ok := recipesLimit(c)
	if !ok {
		return
	}

	view, err := h.subscriptions.Follow(c.Request.Context(), userID, authorID, recipesLimit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.subscriptions.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// recipesLimit reads ?recipes_limit=; absent means no truncation
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fail(c, service.ValidationError("invalid recipes_limit", map[string]string{"recipes_limit": "must be a non-negative integer"}))
		return 0, false
	}
	return n, true
}
