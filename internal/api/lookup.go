package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// LookupHandler serves the read-only tag and ingredient tables
type LookupHandler struct {
	lookups service.ILookupService
}

func NewLookupHandler(lookups service.ILookupService) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

func (h *LookupHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
	router.GET("/ingredients", h.SearchIngredients)
	router.GET("/ingredients/:id", h.GetIngredient)
}

func (h *LookupHandler) ListTags(c *gin.Context) {
	tags, err := h.lookups.ListTags(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *LookupHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tag, err := h.lookups.GetTag(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// SearchIngredients matches ?name= as a case-insensitive prefix
func (h *LookupHandler) SearchIngredients(c *gin.Context) {
	ingredients, err := h.lookups.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *LookupHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ingredient, err := h.lookups.GetIngredient(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
