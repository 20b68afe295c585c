package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	createUserAndToken(t, db, cfg, "bob")
	_, aliceToken := createUserAndToken(t, db, cfg, "alice")

	w := doJSON(router, http.MethodGet, "/api/v1/users", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	users := decodeBody(t, w)["users"].([]interface{})
	require.Len(t, users, 2)
	first := users[0].(map[string]interface{})
	assert.Equal(t, "alice", first["username"])
	assert.NotContains(t, first, "password_hash")
}

func TestCurrentUserEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	alice, token := createUserAndToken(t, db, cfg, "alice")

	w := doJSON(router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, alice.ID.String(), body["id"])
	assert.Equal(t, "alice", body["username"])

	unauth := doJSON(router, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, unauth.Code)
}

func TestGetUserEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	bob, _ := createUserAndToken(t, db, cfg, "bob")

	w := doJSON(router, http.MethodGet, "/api/v1/users/"+bob.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", decodeBody(t, w)["username"])

	missing := doJSON(router, http.MethodGet, "/api/v1/users/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestSubscribeEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	alice, aliceToken := createUserAndToken(t, db, cfg, "alice")
	bob, bobToken := createUserAndToken(t, db, cfg, "bob")

	created := doJSON(router, http.MethodPost, "/api/v1/recipes", bobToken, recipePayload(t, db))
	require.Equal(t, http.StatusCreated, created.Code)

	w := doJSON(router, http.MethodPost, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["is_subscribed"])
	assert.EqualValues(t, 1, body["recipes_count"])
	assert.Len(t, body["recipes"], 1)

	// Repeat subscribe is a state conflict.
	again := doJSON(router, http.MethodPost, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, again.Code)

	// Self-subscription is rejected.
	self := doJSON(router, http.MethodPost, "/api/v1/users/"+alice.ID.String()+"/subscribe", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, self.Code)

	// The flag now shows up on the author projection.
	shown := doJSON(router, http.MethodGet, "/api/v1/users/"+bob.ID.String(), aliceToken, nil)
	assert.Equal(t, true, decodeBody(t, shown)["is_subscribed"])

	removed := doJSON(router, http.MethodDelete, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, removed.Code)

	absent := doJSON(router, http.MethodDelete, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, absent.Code)
}

func TestSubscribeMissingUser(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, token := createUserAndToken(t, db, cfg, "alice")

	w := doJSON(router, http.MethodPost, "/api/v1/users/"+uuid.NewString()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionsEndpoint(t *testing.T) {
	router, db, cfg := setupTestRouter(t)
	_, aliceToken := createUserAndToken(t, db, cfg, "alice")
	bob, bobToken := createUserAndToken(t, db, cfg, "bob")

	for i := 0; i < 3; i++ {
		created := doJSON(router, http.MethodPost, "/api/v1/recipes", bobToken, recipePayload(t, db))
		require.Equal(t, http.StatusCreated, created.Code)
	}
	w := doJSON(router, http.MethodPost, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	list := doJSON(router, http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=2", aliceToken, nil)
	require.Equal(t, http.StatusOK, list.Code)

	subs := decodeBody(t, list)["subscriptions"].([]interface{})
	require.Len(t, subs, 1)
	entry := subs[0].(map[string]interface{})
	assert.Equal(t, "bob", entry["username"])
	assert.EqualValues(t, 3, entry["recipes_count"])
	// recipes_limit truncates the preview but not the count.
	assert.Len(t, entry["recipes"], 2)

	// Without the limit the full preview comes back.
	full := doJSON(router, http.MethodGet, "/api/v1/users/subscriptions", aliceToken, nil)
	require.Equal(t, http.StatusOK, full.Code)
	fullEntry := decodeBody(t, full)["subscriptions"].([]interface{})[0].(map[string]interface{})
	assert.Len(t, fullEntry["recipes"], 3)
}
