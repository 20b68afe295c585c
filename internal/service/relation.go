package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/domain"
	"github.com/plateful/backend/internal/models"
)

// Relation describes one toggle join entity: which table holds the
// (viewer, target) pair, how to build a row, and what the target is. The
// three concrete relations (favorite, shopping cart, subscription) differ
// only in this configuration.
type Relation struct {
	// Label names the relation in error messages ("favorites", "shopping cart").
	Label string
	// TargetLabel names the target entity ("recipe", "user").
	TargetLabel string
	// NewRow builds an unsaved join row for the pair.
	NewRow func(viewerID, targetID uuid.UUID) interface{}
	// PairQuery scopes a query to the (viewer, target) pair.
	PairQuery func(db *gorm.DB, viewerID, targetID uuid.UUID) *gorm.DB
	// TargetExists checks the target entity itself.
	TargetExists func(db *gorm.DB, targetID uuid.UUID) (bool, error)
}

func recipeExists(db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func userExists(db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

var FavoriteRelation = Relation{
	Label:       "favorites",
	TargetLabel: "recipe",
	NewRow: func(viewerID, targetID uuid.UUID) interface{} {
		return &models.Favorite{UserID: viewerID, RecipeID: targetID}
	},
	PairQuery: func(db *gorm.DB, viewerID, targetID uuid.UUID) *gorm.DB {
		return db.Model(&models.Favorite{}).Where("user_id = ? AND recipe_id = ?", viewerID, targetID)
	},
	TargetExists: recipeExists,
}

var ShoppingCartRelation = Relation{
	Label:       "shopping cart",
	TargetLabel: "recipe",
	NewRow: func(viewerID, targetID uuid.UUID) interface{} {
		return &models.ShoppingCartItem{UserID: viewerID, RecipeID: targetID}
	},
	PairQuery: func(db *gorm.DB, viewerID, targetID uuid.UUID) *gorm.DB {
		return db.Model(&models.ShoppingCartItem{}).Where("user_id = ? AND recipe_id = ?", viewerID, targetID)
	},
	TargetExists: recipeExists,
}

var SubscriptionRelation = Relation{
	Label:       "subscriptions",
	TargetLabel: "user",
	NewRow: func(viewerID, targetID uuid.UUID) interface{} {
		return &models.Subscription{UserID: viewerID, AuthorID: targetID}
	},
	PairQuery: func(db *gorm.DB, viewerID, targetID uuid.UUID) *gorm.DB {
		return db.Model(&models.Subscription{}).Where("user_id = ? AND author_id = ?", viewerID, targetID)
	},
	TargetExists: userExists,
}

// RelationService implements the toggle protocol: a pair is either absent or
// present, POST moves it to present, DELETE moves it to absent, and any other
// transition is an error. The store's uniqueness constraint is the backstop
// for concurrent adds; a duplicate-key failure is remapped to the same
// AlreadyExists the pre-check would have produced.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

func (s *RelationService) Add(ctx context.Context, rel Relation, viewerID, targetID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	ok, err := rel.TargetExists(db, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound(rel.TargetLabel)
	}

	var count int64
	if err := rel.PairQuery(db, viewerID, targetID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.AlreadyExists(rel.Label)
	}

	if err := db.Create(rel.NewRow(viewerID, targetID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AlreadyExists(rel.Label)
		}
		return err
	}
	return nil
}

func (s *RelationService) Remove(ctx context.Context, rel Relation, viewerID, targetID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	ok, err := rel.TargetExists(db, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound(rel.TargetLabel)
	}

	result := rel.PairQuery(db, viewerID, targetID).Delete(rel.NewRow(viewerID, targetID))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.RelationNotFound(rel.Label)
	}
	return nil
}

// Subscribe adds a subscription after the self-reference check the plain
// toggle protocol does not know about.
func (s *RelationService) Subscribe(ctx context.Context, viewerID, authorID uuid.UUID) error {
	if viewerID == authorID {
		return domain.ErrSelfSubscription
	}
	return s.Add(ctx, SubscriptionRelation, viewerID, authorID)
}

func (s *RelationService) Unsubscribe(ctx context.Context, viewerID, authorID uuid.UUID) error {
	return s.Remove(ctx, SubscriptionRelation, viewerID, authorID)
}
