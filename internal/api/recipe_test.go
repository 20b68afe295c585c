package api

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/testhelpers"
)

func recipePayload(t *testing.T, db *gorm.DB) map[string]interface{} {
	t.Helper()
	tag := testhelpers.CreateTag(t, db, "Breakfast-"+uuid.NewString()[:8], "#"+uuid.NewString()[:6], "slug-"+uuid.NewString()[:8])
	flour := testhelpers.CreateIngredient(t, db, "flour-"+uuid.NewString()[:8], "g")
	return map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"image":        "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes")),
		"cooking_time": 20,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": flour.ID.String(), "amount": 200},
		},
	}
}

func TestCreateRecipeEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, token := createUserAndToken(t, db, cfg, "alice")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Pancakes", body["name"])
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, false, body["is_favorited"])
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	router, db, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/recipes", "", recipePayload(t, db))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeInvalidCookingTime(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, token := createUserAndToken(t, db, cfg, "alice")

	payload := recipePayload(t, db)
	payload["cooking_time"] = 40000
	w := doJSON(router, http.MethodPost, "/api/v1/recipes", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetRecipeAnonymous(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, token := createUserAndToken(t, db, cfg, "alice")

	created := doJSON(router, http.MethodPost, "/api/v1/recipes", token, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeBody(t, created)["id"].(string)

	w := doJSON(router, http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	// Viewer-scoped flags read false for anonymous requests.
	assert.Equal(t, false, body["is_favorited"])
	assert.Equal(t, false, body["is_in_shopping_cart"])
	author := body["author"].(map[string]interface{})
	assert.Equal(t, false, author["is_subscribed"])
}

func TestGetRecipeMissing(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/recipes/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRecipeNonAuthor(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, aliceToken := createUserAndToken(t, db, cfg, "alice")
	_, bobToken := createUserAndToken(t, db, cfg, "bob")

	created := doJSON(router, http.MethodPost, "/api/v1/recipes", aliceToken, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeBody(t, created)["id"].(string)

	update := recipePayload(t, db)
	update["name"] = "Hijacked"
	w := doJSON(router, http.MethodPatch, "/api/v1/recipes/"+id, bobToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)

	current := doJSON(router, http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, "Pancakes", decodeBody(t, current)["name"])
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, token := createUserAndToken(t, db, cfg, "alice")

	created := doJSON(router, http.MethodPost, "/api/v1/recipes", token, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeBody(t, created)["id"].(string)

	w := doJSON(router, http.MethodDelete, "/api/v1/recipes/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	gone := doJSON(router, http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestFavoriteToggleEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, aliceToken := createUserAndToken(t, db, cfg, "alice")
	_, bobToken := createUserAndToken(t, db, cfg, "bob")

	created := doJSON(router, http.MethodPost, "/api/v1/recipes", bobToken, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeBody(t, created)["id"].(string)

	w := doJSON(router, http.MethodPost, "/api/v1/recipes/"+id+"/favorite", aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Add responses carry the minimal projection only.
	body := decodeBody(t, w)
	assert.Equal(t, id, body["id"])
	assert.Contains(t, body, "name")
	assert.Contains(t, body, "cooking_time")
	assert.NotContains(t, body, "text")

	// Repeat add is a state conflict.
	again := doJSON(router, http.MethodPost, "/api/v1/recipes/"+id+"/favorite", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, again.Code)

	// The flag now reads true for the viewer.
	got := doJSON(router, http.MethodGet, "/api/v1/recipes/"+id, aliceToken, nil)
	assert.Equal(t, true, decodeBody(t, got)["is_favorited"])

	removed := doJSON(router, http.MethodDelete, "/api/v1/recipes/"+id+"/favorite", aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, removed.Code)

	absent := doJSON(router, http.MethodDelete, "/api/v1/recipes/"+id+"/favorite", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, absent.Code)
}

func TestShoppingCartToggleMissingRecipe(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, token := createUserAndToken(t, db, cfg, "alice")

	w := doJSON(router, http.MethodPost, "/api/v1/recipes/"+uuid.NewString()+"/shopping_cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/v1/recipes/"+uuid.NewString()+"/shopping_cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesFiltersEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	alice, aliceToken := createUserAndToken(t, db, cfg, "alice")
	_, bobToken := createUserAndToken(t, db, cfg, "bob")

	first := doJSON(router, http.MethodPost, "/api/v1/recipes", aliceToken, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, first.Code)
	second := doJSON(router, http.MethodPost, "/api/v1/recipes", bobToken, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, second.Code)

	all := doJSON(router, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, all.Code)
	assert.Len(t, decodeBody(t, all)["recipes"], 2)

	byAuthor := doJSON(router, http.MethodGet, "/api/v1/recipes?author="+alice.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, byAuthor.Code)
	assert.Len(t, decodeBody(t, byAuthor)["recipes"], 1)

	badAuthor := doJSON(router, http.MethodGet, "/api/v1/recipes?author=not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, badAuthor.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, token := createUserAndToken(t, db, cfg, "alice")

	created := doJSON(router, http.MethodPost, "/api/v1/recipes", token, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeBody(t, created)["id"].(string)

	added := doJSON(router, http.MethodPost, "/api/v1/recipes/"+id+"/shopping_cart", token, nil)
	require.Equal(t, http.StatusCreated, added.Code)

	w := doJSON(router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.pdf")
	assert.Equal(t, "%PDF-stub", w.Body.String())
}

func TestDownloadShoppingCartRequiresAuth(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
