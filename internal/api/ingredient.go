package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/domain"
	"github.com/plateful/backend/internal/models"
)

type IngredientHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewIngredientHandler(db *gorm.DB, logger *zap.Logger) *IngredientHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngredientHandler{db: db, logger: logger}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

// ListIngredients supports a case-insensitive prefix search on the name via
// the "name" query parameter.
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Order("name ASC")
	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", name+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var ingredient models.Ingredient
	if err := h.db.WithContext(c.Request.Context()).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, h.logger, domain.NotFound("ingredient"))
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
