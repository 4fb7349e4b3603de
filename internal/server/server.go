package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
)

// Deps are the optional collaborators the server can run without
type Deps struct {
	// Redis backs the recipe write rate limits; nil disables them
	Redis *redis.Client
	// Images stores inline recipe images; nil rejects them
	Images service.ImageStore
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	cfg    *config.Config
}

// New creates a new server instance with every route registered
func New(cfg *config.Config, db *gorm.DB, deps Deps) *Server {
	gin.SetMode(cfg.Environment.GinMode())

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	auth := service.NewAuthService(cfg.JWTSecret)

	layout := shoppinglist.DefaultLayout()
	layout.FontPath = cfg.PDFFontPath

	var limits api.RecipeLimits
	if deps.Redis != nil {
		limits.Create = middleware.NewRecipeCreationRateLimiter(deps.Redis, cfg.RecipeCreateLimit).RateLimitMiddleware()
		limits.Update = middleware.NewRecipeModificationRateLimiter(deps.Redis, cfg.RecipeUpdateLimit).RateLimitMiddleware()
	}

	recipeHandler := api.NewRecipeHandler(
		service.NewRecipeService(db, deps.Images),
		service.NewMembershipService(db),
		service.NewShoppingService(db, layout),
		auth,
		limits,
	)
	lookupHandler := api.NewLookupHandler(service.NewStore(db))
	subscriptionHandler := api.NewSubscriptionHandler(service.NewSubscriptionService(db), auth)

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := router.Group("/api")
	recipeHandler.RegisterRoutes(group)
	lookupHandler.RegisterRoutes(group)
	subscriptionHandler.RegisterRoutes(group)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: router,
		},
		db:  db,
		cfg: cfg,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
