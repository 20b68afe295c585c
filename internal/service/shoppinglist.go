package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/printing"
)

// ShoppingListLine is one deduplicated ingredient total across every recipe
// in the viewer's cart.
type ShoppingListLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListService aggregates the viewer's cart and hands the result to
// the document renderer.
type ShoppingListService struct {
	db       *gorm.DB
	renderer printing.PDFRenderer
	docCfg   printing.DocumentConfig
	logger   *zap.Logger
}

func NewShoppingListService(db *gorm.DB, renderer printing.PDFRenderer, docCfg printing.DocumentConfig, logger *zap.Logger) *ShoppingListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingListService{db: db, renderer: renderer, docCfg: docCfg, logger: logger}
}

// Totals is the single aggregation query feeding the exporter: join the cart
// to ingredient links, group by (name, unit), sum amounts, order by name.
// Identical ingredient+unit pairs across different recipes collapse into one
// summed line.
func (s *ShoppingListService) Totals(ctx context.Context, viewerID uuid.UUID) ([]ShoppingListLine, error) {
	var lines []ShoppingListLine
	err := s.db.WithContext(ctx).
		Table("ingredient_recipes").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_recipes.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_recipes.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = ingredient_recipes.recipe_id").
		Where("shopping_cart_items.user_id = ?", viewerID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// CartRecipes returns the recipes currently in the viewer's cart,
// newest-first, for the per-recipe section of the export.
func (s *ShoppingListService) CartRecipes(ctx context.Context, viewerID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipes.id").
		Where("shopping_cart_items.user_id = ?", viewerID).
		Order("recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Export renders the viewer's shopping list as a PDF. The export is
// synchronous and bounded by the cart size.
func (s *ShoppingListService) Export(ctx context.Context, viewerID uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, printing.NewRenderError(printing.ErrCodeRenderFailed, "no PDF renderer configured", nil)
	}
	totals, err := s.Totals(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.CartRecipes(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	doc := printing.ShoppingListDocument{
		Title: s.docCfg.Title,
		Link:  s.docCfg.Link,
	}
	for _, r := range recipes {
		doc.Recipes = append(doc.Recipes, printing.RecipeLine{Name: r.Name, Image: r.Image})
	}
	for _, line := range totals {
		doc.Ingredients = append(doc.Ingredients, printing.IngredientLine{
			Name:   line.Name,
			Amount: line.Amount,
			Unit:   line.MeasurementUnit,
		})
	}

	html, err := printing.BuildShoppingListHTML(doc, s.docCfg, s.logger)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:  html,
		Title: s.docCfg.Title,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("shopping list exported",
		zap.String("user_id", viewerID.String()),
		zap.Int("recipes", len(recipes)),
		zap.Int("lines", len(totals)),
		zap.Duration("render_duration", result.RenderDuration),
	)
	return result.PDFData, nil
}
