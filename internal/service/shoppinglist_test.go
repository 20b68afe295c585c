package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/printing"
	"github.com/plateful/backend/internal/testhelpers"
)

// fakeRenderer records the HTML it was handed and returns a fixed payload.
type fakeRenderer struct {
	lastHTML string
}

func (f *fakeRenderer) Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	f.lastHTML = req.HTML
	return &printing.RenderResult{PDFData: []byte("%PDF-fake"), RenderDuration: time.Millisecond}, nil
}

func (f *fakeRenderer) Close() error { return nil }

func TestShoppingListTotals(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	sugar := testhelpers.CreateIngredient(t, db, "Sugar", "g")

	pancakes := testhelpers.CreateRecipe(t, db, bob, "Pancakes", map[*models.Ingredient]int{
		flour: 200,
		sugar: 50,
	})
	bread := testhelpers.CreateRecipe(t, db, bob, "Bread", map[*models.Ingredient]int{
		flour: 300,
	})
	relations := NewRelationService(db)
	ctx := context.Background()
	require.NoError(t, relations.Add(ctx, ShoppingCartRelation, alice.ID, pancakes.ID))
	require.NoError(t, relations.Add(ctx, ShoppingCartRelation, alice.ID, bread.ID))

	svc := NewShoppingListService(db, nil, printing.DocumentConfig{}, nil)
	lines, err := svc.Totals(ctx, alice.ID)
	require.NoError(t, err)

	// Flour collapses into one summed line; lines come back sorted by name.
	require.Len(t, lines, 2)
	assert.Equal(t, ShoppingListLine{Name: "Flour", MeasurementUnit: "g", Amount: 500}, lines[0])
	assert.Equal(t, ShoppingListLine{Name: "Sugar", MeasurementUnit: "g", Amount: 50}, lines[1])
}

func TestShoppingListTotalsDistinctUnits(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	sugarG := testhelpers.CreateIngredient(t, db, "Sugar", "g")
	sugarTbsp := testhelpers.CreateIngredient(t, db, "Sugar", "tbsp")

	recipe := testhelpers.CreateRecipe(t, db, bob, "Cake", map[*models.Ingredient]int{
		sugarG:    100,
		sugarTbsp: 2,
	})
	relations := NewRelationService(db)
	ctx := context.Background()
	require.NoError(t, relations.Add(ctx, ShoppingCartRelation, alice.ID, recipe.ID))

	svc := NewShoppingListService(db, nil, printing.DocumentConfig{}, nil)
	lines, err := svc.Totals(ctx, alice.ID)
	require.NoError(t, err)

	// Same name, different unit: two separate lines.
	require.Len(t, lines, 2)
	assert.Equal(t, "g", lines[0].MeasurementUnit)
	assert.Equal(t, "tbsp", lines[1].MeasurementUnit)
}

func TestShoppingListTotalsScopedToViewer(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")

	recipe := testhelpers.CreateRecipe(t, db, bob, "Bread", map[*models.Ingredient]int{flour: 300})
	relations := NewRelationService(db)
	ctx := context.Background()
	require.NoError(t, relations.Add(ctx, ShoppingCartRelation, bob.ID, recipe.ID))

	svc := NewShoppingListService(db, nil, printing.DocumentConfig{}, nil)
	lines, err := svc.Totals(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestExportShoppingList(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")

	recipe := testhelpers.CreateRecipe(t, db, bob, "Bread", map[*models.Ingredient]int{flour: 300})
	relations := NewRelationService(db)
	ctx := context.Background()
	require.NoError(t, relations.Add(ctx, ShoppingCartRelation, alice.ID, recipe.ID))

	renderer := &fakeRenderer{}
	docCfg := printing.DocumentConfig{Title: "Plateful", Link: "http://localhost:8080"}
	svc := NewShoppingListService(db, renderer, docCfg, nil)

	pdf, err := svc.Export(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)

	assert.True(t, strings.Contains(renderer.lastHTML, "Bread"))
	assert.True(t, strings.Contains(renderer.lastHTML, "Flour"))
	assert.True(t, strings.Contains(renderer.lastHTML, "300"))
}

func TestExportEmptyCart(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	alice := testhelpers.CreateUser(t, db, "alice")

	renderer := &fakeRenderer{}
	svc := NewShoppingListService(db, renderer, printing.DocumentConfig{Title: "Plateful"}, nil)

	// An empty cart still renders a (blank) document.
	pdf, err := svc.Export(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
