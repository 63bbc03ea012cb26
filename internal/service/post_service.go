package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/repository"
)

// MaxPostLength is the maximum allowed content length in characters.
const MaxPostLength = 280

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

// PostService provides post lifecycle business logic: creation, editing,
// deletion, lookups, search and trending.
type PostService struct {
	postRepo         repository.PostRepository
	userRepo         repository.UserRepository
	hashtagRepo      repository.HashtagRepository
	notificationRepo repository.NotificationRepository
	feed             *FeedService
	notifier         *notifications.Notifier
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	hashtagRepo repository.HashtagRepository,
	notificationRepo repository.NotificationRepository,
	feed *FeedService,
	notifier *notifications.Notifier,
) *PostService {
	return &PostService{
		postRepo:         postRepo,
		userRepo:         userRepo,
		hashtagRepo:      hashtagRepo,
		notificationRepo: notificationRepo,
		feed:             feed,
		notifier:         notifier,
	}
}

// ExtractHashtags returns the lowercased unique hashtag names in content.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ExtractMentions returns the unique usernames mentioned in content.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// CreatePost creates an original post, or a reply when parentID is set.
func (s *PostService) CreatePost(ctx context.Context, userID uint, content string, parentID *uint) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Post content cannot be empty")
	}
	if len([]rune(content)) > MaxPostLength {
		return nil, models.NewValidationError(fmt.Sprintf("Post content cannot exceed %d characters", MaxPostLength))
	}

	post := &models.Post{
		UserID:  userID,
		Content: content,
	}

	var parent *models.Post
	if parentID != nil {
		var err error
		parent, err = s.postRepo.GetByID(ctx, *parentID, 0)
		if err != nil {
			return nil, err
		}
		post.IsReply = true
		post.ParentID = &parent.ID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.syncContentDerivatives(ctx, post)
	cache.InvalidateUser(ctx, userID)
	// New timeline content: every follower's cached feed is now stale.
	s.feed.InvalidateForContentEvent(ctx, userID, "post_create")

	if parent != nil {
		actor, err := s.userRepo.GetByID(ctx, userID)
		if err == nil {
			s.notifier.Notify(ctx, parent.UserID, userID, models.NotificationTypeReply,
				&parent.ID, fmt.Sprintf("%s replied to your post", actor.Username))
		}
	}

	return s.postRepo.GetByID(ctx, post.ID, userID)
}

// syncContentDerivatives refreshes the hashtag links and mention rows
// derived from the post's content and notifies newly mentioned users.
// Both are best-effort side effects of an already committed post.
func (s *PostService) syncContentDerivatives(ctx context.Context, post *models.Post) {
	_ = s.hashtagRepo.SyncPostHashtags(ctx, post.ID, ExtractHashtags(post.Content))

	var mentionedIDs []uint
	var mentioned []*models.User
	for _, username := range ExtractMentions(post.Content) {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			// Mentions of unknown usernames are ignored.
			continue
		}
		mentionedIDs = append(mentionedIDs, user.ID)
		mentioned = append(mentioned, user)
	}
	if err := s.notificationRepo.SyncMentions(ctx, post.ID, mentionedIDs); err != nil {
		return
	}

	actor, err := s.userRepo.GetByID(ctx, post.UserID)
	if err != nil {
		return
	}
	for _, user := range mentioned {
		s.notifier.Notify(ctx, user.ID, post.UserID, models.NotificationTypeMention,
			&post.ID, fmt.Sprintf("%s mentioned you in a post", actor.Username))
		// The mentioned user's feed gains this post regardless of the graph.
		cache.InvalidateFeed(ctx, user.ID)
	}
}

// GetPost returns a post with viewer-relative flags. Anonymous lookups are
// served cache-aside since they carry no per-viewer state.
func (s *PostService) GetPost(ctx context.Context, postID uint, viewerID uint) (*models.Post, error) {
	if viewerID == 0 {
		var post models.Post
		err := cache.Aside(ctx, cache.PostKey(postID), &post, cache.PostTTL, func() error {
			p, err := s.postRepo.GetByID(ctx, postID, 0)
			if err != nil {
				return err
			}
			post = *p
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &post, nil
	}
	return s.postRepo.GetByID(ctx, postID, viewerID)
}

// UpdatePost edits a post's content. Only the author may edit, and retweet
// companions cannot be edited.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint, content string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewPermissionDeniedError("You can only edit your own posts")
	}
	if post.IsRetweet {
		return nil, models.NewValidationError("Retweets cannot be edited")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Post content cannot be empty")
	}
	if len([]rune(content)) > MaxPostLength {
		return nil, models.NewValidationError(fmt.Sprintf("Post content cannot exceed %d characters", MaxPostLength))
	}

	post.Content = content
	// Save would overwrite computed columns; clear them first.
	post.IsLiked = false
	post.IsRetweeted = false
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.syncContentDerivatives(ctx, post)
	cache.InvalidatePost(ctx, postID)
	s.feed.InvalidateForContentEvent(ctx, userID, "post_update")

	return s.postRepo.GetByID(ctx, post.ID, userID)
}

// DeletePost removes a post. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewPermissionDeniedError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, post); err != nil {
		return err
	}

	_ = s.hashtagRepo.ClearPostHashtags(ctx, postID)
	cache.InvalidatePost(ctx, postID)
	cache.InvalidateUser(ctx, userID)
	s.feed.InvalidateForContentEvent(ctx, userID, "post_delete")
	return nil
}

// GetUserPosts returns a user's posts, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}

// GetReplies returns the replies to a post, oldest first.
func (s *PostService) GetReplies(ctx context.Context, postID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.postRepo.Replies(ctx, postID, limit, offset, viewerID)
}

// Search returns posts matching the query. A query of the form "#tag"
// searches by hashtag instead of content.
func (s *PostService) Search(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query cannot be empty")
	}
	if strings.HasPrefix(query, "#") {
		return s.postRepo.ByHashtag(ctx, strings.ToLower(strings.TrimPrefix(query, "#")), limit, offset, viewerID)
	}
	return s.postRepo.Search(ctx, query, limit, offset, viewerID)
}

// Trending returns the most used hashtags over the last 7 days.
func (s *PostService) Trending(ctx context.Context, limit int) ([]models.Hashtag, error) {
	return s.hashtagRepo.Trending(ctx, limit)
}
