package service

import (
	"context"
	"fmt"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/repository"
)

// RelationshipService provides follow graph business logic.
type RelationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	feed       *FeedService
	notifier   *notifications.Notifier
}

// NewRelationshipService returns a new RelationshipService.
func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository, feed *FeedService, notifier *notifications.Notifier) *RelationshipService {
	return &RelationshipService{
		followRepo: followRepo,
		userRepo:   userRepo,
		feed:       feed,
		notifier:   notifier,
	}
}

// Follow makes userID follow targetID. Returns false when the edge already
// existed; the duplicate request succeeds without side effects.
func (s *RelationshipService) Follow(ctx context.Context, userID, targetID uint) (bool, error) {
	if userID == targetID {
		return false, models.NewValidationError("Cannot follow yourself")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return false, err
	}

	created, err := s.followRepo.Create(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	// The follower's feed now includes the target's posts.
	s.feed.InvalidateForActor(ctx, userID, "follow")
	cache.InvalidateUser(ctx, userID)
	cache.InvalidateUser(ctx, targetID)

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		s.notifier.Notify(ctx, target.ID, userID, models.NotificationTypeFollow,
			nil, fmt.Sprintf("%s started following you", actor.Username))
	}
	return true, nil
}

// Unfollow removes the follow edge. Unfollowing a user who was never
// followed is a validation error, not a silent no-op.
func (s *RelationshipService) Unfollow(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewValidationError("Cannot unfollow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.followRepo.Delete(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewValidationError("You are not following this user")
	}

	s.feed.InvalidateForActor(ctx, userID, "unfollow")
	cache.InvalidateUser(ctx, userID)
	cache.InvalidateUser(ctx, targetID)
	return nil
}

// GetFollowers returns users who follow userID.
func (s *RelationshipService) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowers(ctx, userID, limit, offset)
}

// GetFollowing returns users whom userID follows.
func (s *RelationshipService) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowing(ctx, userID, limit, offset)
}

// IsFollowing reports whether userID follows targetID.
func (s *RelationshipService) IsFollowing(ctx context.Context, userID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, userID, targetID)
}
