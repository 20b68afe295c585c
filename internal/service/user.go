package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/domain"
	"github.com/plateful/backend/internal/models"
)

// UserService owns user reads and the viewer-scoped subscription
// annotations.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NotFound("user")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := s.db.WithContext(ctx).Order("username ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SubscribedAuthors returns the authors the viewer follows, username-ordered.
func (s *UserService) SubscribedAuthors(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]models.User, error) {
	query := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", viewerID).
		Order("users.username ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var authors []models.User
	if err := query.Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

// SubscribedSet batch-computes is_subscribed for a page of users with a
// single membership query. Anonymous viewers get an empty set.
func (s *UserService) SubscribedSet(ctx context.Context, viewerID *uuid.UUID, users []models.User) (map[uuid.UUID]bool, error) {
	subscribed := make(map[uuid.UUID]bool)
	if viewerID == nil || len(users) == 0 {
		return subscribed, nil
	}
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	var authorIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", *viewerID, ids).
		Pluck("author_id", &authorIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range authorIDs {
		subscribed[id] = true
	}
	return subscribed, nil
}

// RecipeCounts batch-computes recipes_count for a page of users.
func (s *UserService) RecipeCounts(ctx context.Context, users []models.User) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	if len(users) == 0 {
		return counts, nil
	}
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// LimitedRecipes returns a user's recipes newest-first, truncated to limit
// when it is positive. A missing or non-positive limit means the full set.
func (s *UserService) LimitedRecipes(ctx context.Context, userID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
