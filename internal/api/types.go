package api

import (
	"github.com/google/uuid"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/service"
)

// UserResponse is the public profile projection. IsSubscribed is scoped to
// the requesting viewer and is always false for anonymous reads.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func newUserResponse(user models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

// RecipeMinified is the compact projection returned by toggle adds and used
// for recipe previews.
type RecipeMinified struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func newRecipeMinified(recipe models.Recipe) RecipeMinified {
	return RecipeMinified{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// UserWithRecipesResponse augments a profile with a recipe preview and the
// author's total count.
type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipeMinified `json:"recipes"`
	RecipesCount int64            `json:"recipes_count"`
}

func newUserWithRecipesResponse(user models.User, isSubscribed bool, recipes []models.Recipe, count int64) UserWithRecipesResponse {
	preview := make([]RecipeMinified, 0, len(recipes))
	for _, r := range recipes {
		preview = append(preview, newRecipeMinified(r))
	}
	return UserWithRecipesResponse{
		UserResponse: newUserResponse(user, isSubscribed),
		Recipes:      preview,
		RecipesCount: count,
	}
}

// IngredientInRecipe expands one ingredient link with its catalog fields.
type IngredientInRecipe struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the fully hydrated read representation.
type RecipeResponse struct {
	ID               uuid.UUID            `json:"id"`
	Tags             []models.Tag         `json:"tags"`
	Author           UserResponse         `json:"author"`
	Ingredients      []IngredientInRecipe `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
}

// newRecipeResponse projects one hydrated recipe for a viewer. The
// annotation sets and the subscribed set are batch-computed per page by the
// caller, never per row here.
func newRecipeResponse(recipe models.Recipe, ann service.Annotations, subscribed map[uuid.UUID]bool) RecipeResponse {
	ingredients := make([]IngredientInRecipe, 0, len(recipe.IngredientLinks))
	for _, link := range recipe.IngredientLinks {
		ingredients = append(ingredients, IngredientInRecipe{
			ID:              link.IngredientID,
			Name:            link.Ingredient.Name,
			MeasurementUnit: link.Ingredient.MeasurementUnit,
			Amount:          link.Amount,
		})
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           newUserResponse(recipe.Author, subscribed[recipe.AuthorID]),
		Ingredients:      ingredients,
		IsFavorited:      ann.IsFavorited(recipe.ID),
		IsInShoppingCart: ann.IsInShoppingCart(recipe.ID),
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}
