package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm/clause"

	appconfig "github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/database"
	"github.com/plateful/backend/internal/models"
)

// Seeds the ingredient and tag catalogs from JSON fixtures. Existing rows
// are left untouched.
func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "Path to the ingredients fixture")
	tagsPath := flag.String("tags", "data/tags.json", "Path to the tags fixture")
	flag.Parse()

	cfg, err := appconfig.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	var ingredients []models.Ingredient
	if err := loadJSON(*ingredientsPath, &ingredients); err != nil {
		log.Fatalf("failed to load ingredients: %v", err)
	}
	if len(ingredients) > 0 {
		result := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(ingredients, 500)
		if result.Error != nil {
			log.Fatalf("failed to seed ingredients: %v", result.Error)
		}
		fmt.Printf("Seeded %d ingredients (%d new)\n", len(ingredients), result.RowsAffected)
	}

	var tags []models.Tag
	if err := loadJSON(*tagsPath, &tags); err != nil {
		log.Fatalf("failed to load tags: %v", err)
	}
	for _, tag := range tags {
		if !models.ValidColor(tag.Color) {
			log.Fatalf("invalid color %q for tag %q", tag.Color, tag.Name)
		}
	}
	if len(tags) > 0 {
		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(tags)
		if result.Error != nil {
			log.Fatalf("failed to seed tags: %v", result.Error)
		}
		fmt.Printf("Seeded %d tags (%d new)\n", len(tags), result.RowsAffected)
	}
}

func loadJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
