// Package service contains the business logic layer of the application.
package service

import (
	"context"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/observability"
	"chirp/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultFeedPageSize is the page size served from the cache. Only the
// first page at this size is cached; deeper pages always hit the database.
const DefaultFeedPageSize = 20

// FeedService assembles per-user timelines and owns feed cache invalidation.
type FeedService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(postRepo repository.PostRepository, followRepo repository.FollowRepository) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		followRepo: followRepo,
	}
}

// GetFeed returns the user's timeline: posts authored by followed users or
// the user, plus posts that mention the user, newest first. The first page
// is served cache-aside with a TTL bound; every mutation that changes what
// a feed should contain also invalidates the affected keys, so the TTL is
// a backstop rather than the consistency mechanism.
func (s *FeedService) GetFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "feed.get")
	defer span.End()
	span.AddAttributes(
		attribute.Int("feed.limit", limit),
		attribute.Int("feed.offset", offset),
	)

	if offset == 0 && limit == DefaultFeedPageSize {
		var posts []*models.Post
		found, err := cache.GetJSON(ctx, cache.FeedKey(userID), &posts)
		if err == nil && found {
			observability.FeedCacheHits.Inc()
			span.AddAttributes(attribute.Bool("feed.cache_hit", true))
			return posts, nil
		}
		observability.FeedCacheMisses.Inc()
		span.AddAttributes(attribute.Bool("feed.cache_hit", false))

		posts, err = s.buildFeed(ctx, userID, limit, offset)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		_ = cache.SetJSON(ctx, cache.FeedKey(userID), posts, cache.FeedTTL)
		return posts, nil
	}

	posts, err := s.buildFeed(ctx, userID, limit, offset)
	if err != nil {
		span.SetError(err)
	}
	return posts, err
}

func (s *FeedService) buildFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	followingIDs, err := s.followRepo.ListFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(followingIDs, userID)
	return s.postRepo.Feed(ctx, userID, authorIDs, limit, offset)
}

// InvalidateForActor drops only the acting user's cached feed. Used for
// engagement and graph events, whose effect on other feeds is limited to
// counters and flags that the TTL bound covers.
func (s *FeedService) InvalidateForActor(ctx context.Context, actorID uint, action string) {
	cache.InvalidateFeed(ctx, actorID)
	observability.FeedInvalidations.WithLabelValues(action).Inc()
}

// InvalidateForContentEvent drops the author's cached feed and every
// follower's. Content events change which posts a feed contains, so
// followers must see the change on their next read rather than at TTL
// expiry.
func (s *FeedService) InvalidateForContentEvent(ctx context.Context, authorID uint, action string) {
	followerIDs, err := s.followRepo.ListFollowerIDs(ctx, authorID)
	if err != nil {
		// Degrade to actor-only invalidation; the TTL bounds the rest.
		cache.InvalidateFeed(ctx, authorID)
		observability.FeedInvalidations.WithLabelValues(action).Inc()
		return
	}
	cache.InvalidateFeeds(ctx, append(followerIDs, authorID))
	observability.FeedInvalidations.WithLabelValues(action).Inc()
}
