package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/models"
)

// TestConfig returns a configuration with the default validation bounds.
func TestConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-jwt-secret",
		SiteURL:        "http://localhost:8080",
		CookingTimeMin: config.DefaultCookingTimeMin,
		CookingTimeMax: config.DefaultCookingTimeMax,
		AmountMin:      config.DefaultAmountMin,
		AmountMax:      config.DefaultAmountMax,
	}
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

// CreateRecipe inserts a recipe with its ingredient links already in place,
// bypassing the service validation layer.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, ingredients map[*models.Ingredient]int) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s.", name),
		Image:       "http://localhost:8080/media/recipes/" + uuid.NewString() + ".png",
		CookingTime: 30,
		AuthorID:    author.ID,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	for ingredient, amount := range ingredients {
		link := &models.IngredientRecipe{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Amount:       amount,
		}
		if err := db.Create(link).Error; err != nil {
			t.Fatalf("failed to link ingredient: %v", err)
		}
	}
	return recipe
}
