package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plateful/backend/internal/domain"
	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/service"
)

type UserHandler struct {
	users       *service.UserService
	relations   *service.RelationService
	authService middleware.TokenValidator
	logger      *zap.Logger
}

func NewUserHandler(users *service.UserService, relations *service.RelationService, authService middleware.TokenValidator, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{
		users:       users,
		relations:   relations,
		authService: authService,
		logger:      logger,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.authService), h.CurrentUser)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.authService), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	viewer := middleware.Viewer(c)

	users, err := h.users.List(c.Request.Context(), intQuery(c, "limit"), intQuery(c, "offset"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	subscribed, err := h.users.SubscribedSet(c.Request.Context(), viewer, users)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u, subscribed[u.ID]))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	viewer := middleware.Viewer(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	subscribed, err := h.users.SubscribedSet(c.Request.Context(), viewer, []models.User{*user})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, subscribed[user.ID]))
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		respondError(c, h.logger, domain.ErrUnauthenticated)
		return
	}
	user, err := h.users.Get(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user, false))
}

// Subscriptions lists the authors the viewer follows, each with a recipe
// preview capped by recipes_limit and the author's total recipe count.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		respondError(c, h.logger, domain.ErrUnauthenticated)
		return
	}

	authors, err := h.users.SubscribedAuthors(c.Request.Context(), *viewer, intQuery(c, "limit"), intQuery(c, "offset"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	counts, err := h.users.RecipeCounts(c.Request.Context(), authors)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recipesLimit := intQuery(c, "recipes_limit")
	out := make([]UserWithRecipesResponse, 0, len(authors))
	for _, author := range authors {
		recipes, err := h.users.LimitedRecipes(c.Request.Context(), author.ID, recipesLimit)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		out = append(out, newUserWithRecipesResponse(author, true, recipes, counts[author.ID]))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": out})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		respondError(c, h.logger, domain.ErrUnauthenticated)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.relations.Subscribe(c.Request.Context(), *viewer, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	author, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	counts, err := h.users.RecipeCounts(c.Request.Context(), []models.User{*author})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	recipes, err := h.users.LimitedRecipes(c.Request.Context(), id, intQuery(c, "recipes_limit"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newUserWithRecipesResponse(*author, true, recipes, counts[author.ID]))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		respondError(c, h.logger, domain.ErrUnauthenticated)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.relations.Unsubscribe(c.Request.Context(), *viewer, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
