package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plateful/backend/internal/domain"
	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/service"
)

type RecipeHandler struct {
	recipes      *service.RecipeService
	relations    *service.RelationService
	users        *service.UserService
	shoppingList *service.ShoppingListService
	images       *service.ImageService
	authService  middleware.TokenValidator
	rateLimiter  *middleware.RateLimiter
	logger       *zap.Logger
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	relations *service.RelationService,
	users *service.UserService,
	shoppingList *service.ShoppingListService,
	images *service.ImageService,
	authService middleware.TokenValidator,
	rateLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *RecipeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeHandler{
		recipes:      recipes,
		relations:    relations,
		users:        users,
		shoppingList: shoppingList,
		images:       images,
		authService:  authService,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.authService), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)

		createHandlers := []gin.HandlerFunc{middleware.AuthMiddleware(h.authService)}
		if h.rateLimiter != nil {
			createHandlers = append(createHandlers, h.rateLimiter.RateLimitMiddleware())
		}
		createHandlers = append(createHandlers, h.CreateRecipe)
		recipes.POST("", createHandlers...)

		recipes.PATCH("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.authService), h.addRelation(service.FavoriteRelation))
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.authService), h.removeRelation(service.FavoriteRelation))
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.addRelation(service.ShoppingCartRelation))
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.removeRelation(service.ShoppingCartRelation))
	}
}

type recipeRequest struct {
	Name        string                     `json:"name" binding:"required"`
	Text        string                     `json:"text" binding:"required"`
	Image       string                     `json:"image"`
	CookingTime int                        `json:"cooking_time" binding:"required"`
	Tags        []uuid.UUID                `json:"tags"`
	Ingredients []service.IngredientAmount `json:"ingredients"`
}

func (h *RecipeHandler) toInput(c *gin.Context, req *recipeRequest) (*service.RecipeInput, error) {
	input := &service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	}
	if req.Image != "" {
		url, err := h.images.Store(c.Request.Context(), req.Image)
		if err != nil {
			return nil, err
		}
		input.Image = url
	}
	return input, nil
}

// respondRecipes projects a page of recipes for the viewer, annotating
// favorite/cart membership and author subscriptions in batch.
func (h *RecipeHandler) respondRecipes(c *gin.Context, viewer *uuid.UUID, recipes []models.Recipe, status int, single bool) {
	ann, err := h.recipes.Annotate(c.Request.Context(), viewer, recipes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	authors := make([]models.User, 0, len(recipes))
	for _, r := range recipes {
		authors = append(authors, r.Author)
	}
	subscribed, err := h.users.SubscribedSet(c.Request.Context(), viewer, authors)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if single {
		c.JSON(status, newRecipeResponse(recipes[0], ann, subscribed))
		return
	}
	out := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, newRecipeResponse(r, ann, subscribed))
	}
	c.JSON(status, gin.H{"recipes": out})
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := middleware.Viewer(c)

	filter := service.RecipeFilter{
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}
	if tags := c.QueryArray("tags"); len(tags) > 0 {
		filter.TagSlugs = tags
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}
	filter.IsFavorited = boolQuery(c, "is_favorited")
	filter.IsInCart = boolQuery(c, "is_in_shopping_cart")

	recipes, err := h.recipes.List(c.Request.Context(), viewer, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondRecipes(c, viewer, recipes, http.StatusOK, false)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondRecipes(c, middleware.Viewer(c), []models.Recipe{*recipe}, http.StatusOK, true)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		respondError(c, h.logger, domain.ErrUnauthenticated)
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.toInput(c, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), *viewer, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondRecipes(c, viewer, []models.Recipe{*recipe}, http.StatusCreated, true)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		respondError(c, h.logger, domain.ErrUnauthenticated)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.toInput(c, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), *viewer, id, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondRecipes(c, viewer, []models.Recipe{*recipe}, http.StatusOK, true)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		respondError(c, h.logger, domain.ErrUnauthenticated)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), *viewer, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addRelation and removeRelation run the toggle protocol for the relation
// named in the route. Add returns the minimal recipe projection; remove has
// no body.
func (h *RecipeHandler) addRelation(rel service.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middleware.Viewer(c)
		if viewer == nil {
			respondError(c, h.logger, domain.ErrUnauthenticated)
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := h.relations.Add(c.Request.Context(), rel, *viewer, id); err != nil {
			respondError(c, h.logger, err)
			return
		}
		recipe, err := h.recipes.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusCreated, newRecipeMinified(*recipe))
	}
}

func (h *RecipeHandler) removeRelation(rel service.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middleware.Viewer(c)
		if viewer == nil {
			respondError(c, h.logger, domain.ErrUnauthenticated)
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := h.relations.Remove(c.Request.Context(), rel, *viewer, id); err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		respondError(c, h.logger, domain.ErrUnauthenticated)
		return
	}
	pdf, err := h.shoppingList.Export(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}

func boolQuery(c *gin.Context, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		return true
	default:
		return false
	}
}
