package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/domain"
	"github.com/plateful/backend/internal/models"
)

// IngredientAmount is one entry of a recipe write payload.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// RecipeInput carries the validated fields of a create/update request. Image
// is a stored URL by the time it reaches this layer; empty means "absent".
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Tags        []uuid.UUID
	Ingredients []IngredientAmount
}

// RecipeFilter narrows the recipe listing.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    *uuid.UUID
	IsFavorited bool
	IsInCart    bool
	Limit       int
	Offset      int
}

// RecipeService owns recipe reads and writes, including the write-side
// invariant checks. All validation runs before any row is touched, so a
// rejected update leaves prior associations intact.
type RecipeService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewRecipeService(db *gorm.DB, cfg *config.Config) *RecipeService {
	return &RecipeService{db: db, cfg: cfg}
}

// validateIngredients checks the full incoming set: non-empty, duplicate-free,
// every id present in the store, every amount within configured bounds.
func (s *RecipeService) validateIngredients(ingredients []IngredientAmount) error {
	if len(ingredients) == 0 {
		return domain.EmptyCollection("ingredients")
	}
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	ids := make([]uuid.UUID, 0, len(ingredients))
	for _, ing := range ingredients {
		if _, ok := seen[ing.ID]; ok {
			return domain.DuplicateEntry("ingredients")
		}
		seen[ing.ID] = struct{}{}
		ids = append(ids, ing.ID)
		if ing.Amount < s.cfg.AmountMin || ing.Amount > s.cfg.AmountMax {
			return domain.OutOfRange("ingredient amount", s.cfg.AmountMin, s.cfg.AmountMax)
		}
	}
	var count int64
	if err := s.db.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return domain.NotFound("ingredient")
	}
	return nil
}

func (s *RecipeService) validateTags(tags []uuid.UUID) error {
	if len(tags) == 0 {
		return domain.EmptyCollection("tags")
	}
	seen := make(map[uuid.UUID]struct{}, len(tags))
	for _, id := range tags {
		if _, ok := seen[id]; ok {
			return domain.DuplicateEntry("tags")
		}
		seen[id] = struct{}{}
	}
	var count int64
	if err := s.db.Model(&models.Tag{}).Where("id IN ?", tags).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(tags) {
		return domain.NotFound("tag")
	}
	return nil
}

func (s *RecipeService) validateCookingTime(value int) error {
	if value < s.cfg.CookingTimeMin || value > s.cfg.CookingTimeMax {
		return domain.OutOfRange("cooking_time", s.cfg.CookingTimeMin, s.cfg.CookingTimeMax)
	}
	return nil
}

func (s *RecipeService) validateInput(input *RecipeInput, requireImage bool) error {
	if requireImage && input.Image == "" {
		return domain.MissingRequiredField("image")
	}
	if err := s.validateCookingTime(input.CookingTime); err != nil {
		return err
	}
	if err := s.validateTags(input.Tags); err != nil {
		return err
	}
	return s.validateIngredients(input.Ingredients)
}

// Create validates the whole payload, then writes the recipe and its
// associations in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input *RecipeInput) (*models.Recipe, error) {
	if err := s.validateInput(input, true); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:        input.Name,
		Text:        input.Text,
		Image:       input.Image,
		CookingTime: input.CookingTime,
		AuthorID:    authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, input)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update authorizes the viewer as author, validates the whole payload, then
// replaces the recipe's fields and associations wholesale in one transaction.
// An absent image keeps the stored one.
func (s *RecipeService) Update(ctx context.Context, viewerID, recipeID uuid.UUID, input *RecipeInput) (*models.Recipe, error) {
	recipe, err := s.find(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeRecipeMutation(viewerID, recipe); err != nil {
		return nil, err
	}
	if err := s.validateInput(input, false); err != nil {
		return nil, err
	}

	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.CookingTime = input.CookingTime
	if input.Image != "" {
		recipe.Image = input.Image
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, input)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// replaceAssociations bulk-inserts the validated tag and ingredient sets for
// a recipe. Callers clear existing rows first when updating.
func replaceAssociations(tx *gorm.DB, recipeID uuid.UUID, input *RecipeInput) error {
	links := make([]models.IngredientRecipe, 0, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		links = append(links, models.IngredientRecipe{
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Amount:       ing.Amount,
		})
	}
	if err := tx.Create(&links).Error; err != nil {
		return err
	}
	for _, tagID := range input.Tags {
		if err := tx.Exec("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", recipeID, tagID).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a recipe after authorizing the viewer as its author.
// Cascades take the join rows with it.
func (s *RecipeService) Delete(ctx context.Context, viewerID, recipeID uuid.UUID) error {
	recipe, err := s.find(ctx, recipeID)
	if err != nil {
		return err
	}
	if err := AuthorizeRecipeMutation(viewerID, recipe); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Select("Tags", "IngredientLinks").Delete(recipe).Error
}

// AuthorizeRecipeMutation allows mutation only by the recipe's author. Reads
// are unrestricted and never pass through here.
func AuthorizeRecipeMutation(viewerID uuid.UUID, recipe *models.Recipe) error {
	if recipe.AuthorID != viewerID {
		return domain.ErrPermissionDenied
	}
	return nil
}

func (s *RecipeService) find(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NotFound("recipe")
		}
		return nil, err
	}
	return &recipe, nil
}

// Get returns a fully hydrated recipe: tags, ingredient links with their
// ingredients, and the author.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("IngredientLinks.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NotFound("recipe")
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns hydrated recipes newest-first, narrowed by the filter. The
// is_favorited / is_in_shopping_cart filters are a no-op for anonymous
// viewers.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Tags").
		Preload("IngredientLinks.Ingredient").
		Preload("Author").
		Order("recipes.created_at DESC")

	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if viewerID != nil {
		if filter.IsFavorited {
			query = query.Joins("JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?", *viewerID)
		}
		if filter.IsInCart {
			query = query.Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipes.id AND shopping_cart_items.user_id = ?", *viewerID)
		}
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Annotations carries the viewer-scoped membership sets for one page of
// recipes. Zero value means "anonymous viewer": everything reads false.
type Annotations struct {
	FavoriteIDs map[uuid.UUID]bool
	CartIDs     map[uuid.UUID]bool
}

func (a Annotations) IsFavorited(recipeID uuid.UUID) bool {
	return a.FavoriteIDs[recipeID]
}

func (a Annotations) IsInShoppingCart(recipeID uuid.UUID) bool {
	return a.CartIDs[recipeID]
}

// Annotate batch-computes favorite and cart membership for the given recipes
// with one query per relation, never one per row. Anonymous viewers get the
// zero value.
func (s *RecipeService) Annotate(ctx context.Context, viewerID *uuid.UUID, recipes []models.Recipe) (Annotations, error) {
	if viewerID == nil || len(recipes) == 0 {
		return Annotations{}, nil
	}

	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}

	var favoriteIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
		Pluck("recipe_id", &favoriteIDs).Error
	if err != nil {
		return Annotations{}, err
	}

	var cartIDs []uuid.UUID
	err = s.db.WithContext(ctx).Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
		Pluck("recipe_id", &cartIDs).Error
	if err != nil {
		return Annotations{}, err
	}

	ann := Annotations{
		FavoriteIDs: make(map[uuid.UUID]bool, len(favoriteIDs)),
		CartIDs:     make(map[uuid.UUID]bool, len(cartIDs)),
	}
	for _, id := range favoriteIDs {
		ann.FavoriteIDs[id] = true
	}
	for _, id := range cartIDs {
		ann.CartIDs[id] = true
	}
	return ann, nil
}
