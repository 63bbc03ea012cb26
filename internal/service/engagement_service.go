package service

import (
	"context"
	"fmt"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/observability"
	"chirp/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// EngagementService provides like and retweet business logic.
type EngagementService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	feed     *FeedService
	notifier *notifications.Notifier
}

// NewEngagementService returns a new EngagementService.
func NewEngagementService(postRepo repository.PostRepository, userRepo repository.UserRepository, feed *FeedService, notifier *notifications.Notifier) *EngagementService {
	return &EngagementService{
		postRepo: postRepo,
		userRepo: userRepo,
		feed:     feed,
		notifier: notifier,
	}
}

// Like records userID liking postID. Returns false when the like already
// existed; the duplicate request succeeds without side effects.
func (s *EngagementService) Like(ctx context.Context, userID, postID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return false, err
	}

	created, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	cache.InvalidatePost(ctx, postID)
	s.feed.InvalidateForActor(ctx, userID, "like")

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		s.notifier.Notify(ctx, post.UserID, userID, models.NotificationTypeLike,
			&post.ID, fmt.Sprintf("%s liked your post", actor.Username))
	}
	return true, nil
}

// Unlike removes userID's like on postID. Unliking a post that was never
// liked is a validation error.
func (s *EngagementService) Unlike(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}

	removed, err := s.postRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewValidationError("You have not liked this post")
	}

	cache.InvalidatePost(ctx, postID)
	s.feed.InvalidateForActor(ctx, userID, "unlike")
	return nil
}

// Retweet records userID retweeting postID and creates the companion post
// that carries the retweet into timelines. Returns the companion and false
// when the user had already retweeted.
func (s *EngagementService) Retweet(ctx context.Context, userID, postID uint) (*models.Post, bool, error) {
	span, ctx := observability.NewSpan(ctx, "engagement.retweet")
	defer span.End()
	span.AddAttributes(attribute.Int("post.id", int(postID)))

	original, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, false, err
	}
	if original.IsRetweet {
		return nil, false, models.NewValidationError("Cannot retweet a retweet")
	}

	companion, created, err := s.postRepo.Retweet(ctx, userID, original)
	if err != nil {
		span.SetError(err)
		return nil, false, err
	}
	if !created {
		return nil, false, nil
	}

	cache.InvalidatePost(ctx, postID)
	// The companion post is new timeline content for the retweeter's
	// followers, not just a counter change.
	s.feed.InvalidateForContentEvent(ctx, userID, "retweet")

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		s.notifier.Notify(ctx, original.UserID, userID, models.NotificationTypeRetweet,
			&original.ID, fmt.Sprintf("%s retweeted your post", actor.Username))
	}
	return companion, true, nil
}

// Unretweet removes userID's retweet of postID along with the companion
// post. Unretweeting a post that was never retweeted is a validation error.
// A retweet intent without a companion post breaks an internal invariant;
// the repository rolls the whole unit back and the error is surfaced
// rather than the rows silently repaired.
func (s *EngagementService) Unretweet(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}

	removed, err := s.postRepo.Unretweet(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewValidationError("You have not retweeted this post")
	}

	cache.InvalidatePost(ctx, postID)
	s.feed.InvalidateForContentEvent(ctx, userID, "unretweet")
	return nil
}

// GetLikers returns users who liked the post.
func (s *EngagementService) GetLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.postRepo.GetLikers(ctx, postID, limit, offset)
}

// GetRetweeters returns users who retweeted the post.
func (s *EngagementService) GetRetweeters(ctx context.Context, postID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.postRepo.GetRetweeters(ctx, postID, limit, offset)
}
