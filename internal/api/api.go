package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/printing"
	"github.com/plateful/backend/internal/service"
)

// Deps carries everything the HTTP layer needs. Redis, S3 and the PDF
// renderer may be nil; the features they back are then disabled.
type Deps struct {
	DB          *gorm.DB
	Config      *config.Config
	RedisClient *redis.Client
	S3Config    *config.S3Config
	Renderer    printing.PDFRenderer
	Logger      *zap.Logger
	// MediaDir is where images land without S3. Defaults to ./media.
	MediaDir string
}

func SetupAPI(router *gin.Engine, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.Config.SiteURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	mediaDir := deps.MediaDir
	if mediaDir == "" {
		mediaDir = "./media"
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.Static("/media", mediaDir)

	v1 := router.Group("/api/v1")
	{
		authService := service.NewAuthService(deps.DB, deps.Config.JWTSecret)
		recipeService := service.NewRecipeService(deps.DB, deps.Config)
		relationService := service.NewRelationService(deps.DB)
		userService := service.NewUserService(deps.DB)
		imageService := service.NewImageService(deps.S3Config, mediaDir, deps.Config.SiteURL, logger)
		docCfg := printing.DocumentConfig{
			Title:    "Plateful",
			Link:     deps.Config.SiteURL,
			LogoPath: deps.Config.LogoPath,
		}
		shoppingListService := service.NewShoppingListService(deps.DB, deps.Renderer, docCfg, logger)

		var rateLimiter *middleware.RateLimiter
		if deps.RedisClient != nil {
			rateLimiter = middleware.NewRecipeCreationRateLimiter(deps.RedisClient)
		}

		authHandler := NewAuthHandler(authService, logger)
		userHandler := NewUserHandler(userService, relationService, authService, logger)
		recipeHandler := NewRecipeHandler(recipeService, relationService, userService, shoppingListService, imageService, authService, rateLimiter, logger)
		tagHandler := NewTagHandler(deps.DB, logger)
		ingredientHandler := NewIngredientHandler(deps.DB, logger)

		authHandler.RegisterRoutes(v1)
		userHandler.RegisterRoutes(v1)
		recipeHandler.RegisterRoutes(v1)
		tagHandler.RegisterRoutes(v1)
		ingredientHandler.RegisterRoutes(v1)
	}
}
