package service

import (
	"context"
	"errors"
	"testing"

	"chirp/internal/models"
)

func TestRelationshipServiceFollowSelf(t *testing.T) {
	svc := NewRelationshipService(noopFollowRepo(), noopUserRepo(), noopFeedService(), nil)
	_, err := svc.Follow(context.Background(), 3, 3)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestRelationshipServiceFollowMissingTarget(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}

	svc := NewRelationshipService(noopFollowRepo(), users, noopFeedService(), nil)
	_, err := svc.Follow(context.Background(), 1, 99)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("expected not-found app error, got %#v", err)
	}
}

func TestRelationshipServiceFollowDuplicateIsNoop(t *testing.T) {
	follows := noopFollowRepo()
	follows.createFn = func(context.Context, uint, uint) (bool, error) { return false, nil }

	svc := NewRelationshipService(follows, noopUserRepo(), noopFeedService(), nil)
	created, err := svc.Follow(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected duplicate follow to report created=false")
	}
}

func TestRelationshipServiceUnfollowAbsentEdge(t *testing.T) {
	follows := noopFollowRepo()
	follows.deleteFn = func(context.Context, uint, uint) (bool, error) { return false, nil }

	svc := NewRelationshipService(follows, noopUserRepo(), noopFeedService(), nil)
	err := svc.Unfollow(context.Background(), 1, 2)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestRelationshipServiceFollowCreates(t *testing.T) {
	var gotFollower, gotFollowing uint
	follows := noopFollowRepo()
	follows.createFn = func(_ context.Context, followerID, followingID uint) (bool, error) {
		gotFollower, gotFollowing = followerID, followingID
		return true, nil
	}

	svc := NewRelationshipService(follows, noopUserRepo(), noopFeedService(), nil)
	created, err := svc.Follow(context.Background(), 7, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true")
	}
	if gotFollower != 7 || gotFollowing != 8 {
		t.Fatalf("edge created with wrong direction: %d -> %d", gotFollower, gotFollowing)
	}
}
