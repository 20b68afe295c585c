package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/domain"
	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/printing"
	"github.com/plateful/backend/internal/service"
	"github.com/plateful/backend/internal/testhelpers"
)

// Runs the write path end to end against a real PostgreSQL, where constraint
// behavior (unique pairs, cascades, the self-follow check) differs from the
// SQLite used in unit tests.
func TestRecipeLifecyclePostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := testhelpers.SetupPostgresTestDB(t)
	ctx := context.Background()

	cfg := testhelpers.TestConfig()
	recipes := service.NewRecipeService(db, cfg)
	relations := service.NewRelationService(db)
	shopping := service.NewShoppingListService(db, nil, printing.DocumentConfig{Title: "Plateful"}, nil)

	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	tag := testhelpers.CreateTag(t, db, "Dinner", "#8775D2", "dinner")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")

	bread, err := recipes.Create(ctx, bob.ID, &service.RecipeInput{
		Name:        "Bread",
		Text:        "Knead and bake.",
		Image:       "http://localhost:8080/media/recipes/bread.png",
		CookingTime: 90,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: []service.IngredientAmount{
			{ID: flour.ID, Amount: 500},
			{ID: salt.ID, Amount: 10},
		},
	})
	require.NoError(t, err)

	require.NoError(t, relations.Add(ctx, service.ShoppingCartRelation, alice.ID, bread.ID))

	// The unique pair constraint holds on postgres and the translated error
	// still surfaces as a state conflict.
	err = db.Create(&models.ShoppingCartItem{UserID: alice.ID, RecipeID: bread.ID}).Error
	require.Error(t, err)
	err = relations.Add(ctx, service.ShoppingCartRelation, alice.ID, bread.ID)
	assert.True(t, domain.IsKind(err, domain.KindAlreadyExists))

	lines, err := shopping.Totals(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Flour", lines[0].Name)
	assert.Equal(t, 500, lines[0].Amount)

	// The check constraint rejects self-follows even below the service layer.
	err = db.Create(&models.Subscription{UserID: alice.ID, AuthorID: alice.ID}).Error
	assert.Error(t, err)

	// Deleting the recipe cascades to the cart rows.
	require.NoError(t, recipes.Delete(ctx, bob.ID, bread.ID))
	var cartRows int64
	require.NoError(t, db.Model(&models.ShoppingCartItem{}).Count(&cartRows).Error)
	assert.Zero(t, cartRows)
}
