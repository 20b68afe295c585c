package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/domain"
	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/testhelpers"
)

func TestGetUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewUserService(db)
	alice := testhelpers.CreateUser(t, db, "alice")

	user, err := svc.Get(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestListUsersOrdered(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewUserService(db)
	testhelpers.CreateUser(t, db, "carol")
	testhelpers.CreateUser(t, db, "alice")
	testhelpers.CreateUser(t, db, "bob")

	users, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "carol", users[2].Username)

	page, err := svc.List(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "bob", page[0].Username)
}

func TestSubscribedAuthors(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewUserService(db)
	relations := NewRelationService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	carol := testhelpers.CreateUser(t, db, "carol")
	ctx := context.Background()

	require.NoError(t, relations.Subscribe(ctx, alice.ID, carol.ID))
	require.NoError(t, relations.Subscribe(ctx, alice.ID, bob.ID))

	authors, err := svc.SubscribedAuthors(ctx, alice.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "bob", authors[0].Username)
	assert.Equal(t, "carol", authors[1].Username)

	// bob follows nobody.
	none, err := svc.SubscribedAuthors(ctx, bob.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSubscribedSet(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewUserService(db)
	relations := NewRelationService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	carol := testhelpers.CreateUser(t, db, "carol")
	ctx := context.Background()

	require.NoError(t, relations.Subscribe(ctx, alice.ID, bob.ID))

	set, err := svc.SubscribedSet(ctx, &alice.ID, []models.User{*bob, *carol})
	require.NoError(t, err)
	assert.True(t, set[bob.ID])
	assert.False(t, set[carol.ID])

	// Anonymous viewers get an empty set.
	anon, err := svc.SubscribedSet(ctx, nil, []models.User{*bob})
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestRecipeCountsAndLimitedRecipes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewUserService(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")

	for _, name := range []string{"Pancakes", "Bread", "Stew"} {
		testhelpers.CreateRecipe(t, db, bob, name, nil)
	}

	counts, err := svc.RecipeCounts(context.Background(), []models.User{*alice, *bob})
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[bob.ID])
	assert.EqualValues(t, 0, counts[alice.ID])

	limited, err := svc.LimitedRecipes(context.Background(), bob.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	// Non-positive limit means the full set.
	full, err := svc.LimitedRecipes(context.Background(), bob.ID, 0)
	require.NoError(t, err)
	assert.Len(t, full, 3)
}
