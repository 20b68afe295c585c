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

type TagHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTagHandler(db *gorm.DB, logger *zap.Logger) *TagHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagHandler{db: db, logger: logger}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.WithContext(c.Request.Context()).Order("name ASC").Find(&tags).Error; err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var tag models.Tag
	if err := h.db.WithContext(c.Request.Context()).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, h.logger, domain.NotFound("tag"))
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
