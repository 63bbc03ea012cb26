package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"chirp/internal/models"
)

func newPostService(posts *postRepoStub, users *userRepoStub, hashtags *hashtagRepoStub, notifs *notificationRepoStub) *PostService {
	return NewPostService(posts, users, hashtags, notifs, noopFeedService(), nil)
}

func TestExtractHashtags(t *testing.T) {
	got := ExtractHashtags("Learning #Golang and #golang with #gorm today")
	want := []string{"golang", "gorm"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got := ExtractHashtags("no tags here"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestExtractMentions(t *testing.T) {
	got := ExtractMentions("hey @alice and @bob, also @alice again")
	want := []string{"alice", "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPostServiceCreateEmptyContent(t *testing.T) {
	svc := newPostService(noopPostRepo(), noopUserRepo(), noopHashtagRepo(), noopNotificationRepo())
	_, err := svc.CreatePost(context.Background(), 1, "   ", nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestPostServiceCreateTooLong(t *testing.T) {
	svc := newPostService(noopPostRepo(), noopUserRepo(), noopHashtagRepo(), noopNotificationRepo())
	_, err := svc.CreatePost(context.Background(), 1, strings.Repeat("a", MaxPostLength+1), nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestPostServiceReplyToMissingParent(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := newPostService(posts, noopUserRepo(), noopHashtagRepo(), noopNotificationRepo())
	parentID := uint(42)
	_, err := svc.CreatePost(context.Background(), 1, "a reply", &parentID)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("expected not-found app error, got %#v", err)
	}
}

func TestPostServiceCreateSyncsHashtagsAndMentions(t *testing.T) {
	var syncedTags []string
	var syncedMentions []uint

	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 10
		return nil
	}
	hashtags := noopHashtagRepo()
	hashtags.syncPostHashtagsFn = func(_ context.Context, _ uint, names []string) error {
		syncedTags = names
		return nil
	}
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
		if name == "alice" {
			return &models.User{ID: 21, Username: "alice"}, nil
		}
		return nil, models.NewNotFoundError("User", name)
	}
	notifs := noopNotificationRepo()
	notifs.syncMentionsFn = func(_ context.Context, _ uint, userIDs []uint) error {
		syncedMentions = userIDs
		return nil
	}

	svc := newPostService(posts, users, hashtags, notifs)
	_, err := svc.CreatePost(context.Background(), 1, "hi @alice and @ghost #Golang", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(syncedTags, []string{"golang"}) {
		t.Fatalf("hashtags not synced: %v", syncedTags)
	}
	// Unknown usernames are dropped.
	if !reflect.DeepEqual(syncedMentions, []uint{21}) {
		t.Fatalf("mentions not synced: %v", syncedMentions)
	}
}

func TestPostServiceUpdateNotOwner(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2, Content: "theirs"}, nil
	}

	svc := newPostService(posts, noopUserRepo(), noopHashtagRepo(), noopNotificationRepo())
	_, err := svc.UpdatePost(context.Background(), 1, 5, "mine now")
	if err == nil {
		t.Fatal("expected permission error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodePermissionDenied {
		t.Fatalf("expected permission denied app error, got %#v", err)
	}
}

func TestPostServiceUpdateRetweetCompanion(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		orig := uint(1)
		return &models.Post{ID: id, UserID: 1, IsRetweet: true, OriginalPostID: &orig}, nil
	}

	svc := newPostService(posts, noopUserRepo(), noopHashtagRepo(), noopNotificationRepo())
	_, err := svc.UpdatePost(context.Background(), 1, 5, "edited")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestPostServiceDeleteNotOwner(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2}, nil
	}

	svc := newPostService(posts, noopUserRepo(), noopHashtagRepo(), noopNotificationRepo())
	err := svc.DeletePost(context.Background(), 1, 5)
	if err == nil {
		t.Fatal("expected permission error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodePermissionDenied {
		t.Fatalf("expected permission denied app error, got %#v", err)
	}
}

func TestPostServiceSearchRoutesHashtagQueries(t *testing.T) {
	var hashtagQuery, contentQuery string
	posts := noopPostRepo()
	posts.byHashtagFn = func(_ context.Context, tag string, _, _ int, _ uint) ([]*models.Post, error) {
		hashtagQuery = tag
		return nil, nil
	}
	posts.searchFn = func(_ context.Context, q string, _, _ int, _ uint) ([]*models.Post, error) {
		contentQuery = q
		return nil, nil
	}

	svc := newPostService(posts, noopUserRepo(), noopHashtagRepo(), noopNotificationRepo())
	if _, err := svc.Search(context.Background(), "#GoLang", 10, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashtagQuery != "golang" {
		t.Fatalf("hashtag query not routed, got %q", hashtagQuery)
	}

	if _, err := svc.Search(context.Background(), "plain words", 10, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentQuery != "plain words" {
		t.Fatalf("content query not routed, got %q", contentQuery)
	}
}
