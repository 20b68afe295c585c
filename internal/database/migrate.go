package database

import (
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
)

// AutoMigrate creates or updates the schema for all entities. Join entities
// come last so their foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.IngredientRecipe{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
		&models.Subscription{},
	)
}
