package service

import (
	"context"

	"chirp/internal/models"
)

type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	searchFn        func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, q, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, name string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", name)
		},
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", email)
		},
		updateFn: func(context.Context, *models.User) error { return nil },
		searchFn: func(context.Context, string, int, int) ([]models.User, error) { return nil, nil },
	}
}

type followRepoStub struct {
	createFn           func(context.Context, uint, uint) (bool, error)
	deleteFn           func(context.Context, uint, uint) (bool, error)
	existsFn           func(context.Context, uint, uint) (bool, error)
	listFollowingIDsFn func(context.Context, uint) ([]uint, error)
	listFollowerIDsFn  func(context.Context, uint) ([]uint, error)
	getFollowersFn     func(context.Context, uint, int, int) ([]models.User, error)
	getFollowingFn     func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.createFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) ListFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.listFollowingIDsFn(ctx, userID)
}
func (s *followRepoStub) ListFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.listFollowerIDsFn(ctx, userID)
}
func (s *followRepoStub) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.getFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.getFollowingFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:           func(context.Context, uint, uint) (bool, error) { return true, nil },
		deleteFn:           func(context.Context, uint, uint) (bool, error) { return true, nil },
		existsFn:           func(context.Context, uint, uint) (bool, error) { return false, nil },
		listFollowingIDsFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
		listFollowerIDsFn:  func(context.Context, uint) ([]uint, error) { return nil, nil },
		getFollowersFn:     func(context.Context, uint, int, int) ([]models.User, error) { return nil, nil },
		getFollowingFn:     func(context.Context, uint, int, int) ([]models.User, error) { return nil, nil },
	}
}

type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint, uint) (*models.Post, error)
	feedFn          func(context.Context, uint, []uint, int, int) ([]*models.Post, error)
	getByUserIDFn   func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	repliesFn       func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	searchFn        func(context.Context, string, int, int, uint) ([]*models.Post, error)
	byHashtagFn     func(context.Context, string, int, int, uint) ([]*models.Post, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, *models.Post) error
	likeFn          func(context.Context, uint, uint) (bool, error)
	unlikeFn        func(context.Context, uint, uint) (bool, error)
	retweetFn       func(context.Context, uint, *models.Post) (*models.Post, bool, error)
	unretweetFn     func(context.Context, uint, uint) (bool, error)
	getLikersFn     func(context.Context, uint, int, int) ([]models.User, error)
	getRetweetersFn func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) Feed(ctx context.Context, viewerID uint, authorIDs []uint, limit, offset int) ([]*models.Post, error) {
	return s.feedFn(ctx, viewerID, authorIDs, limit, offset)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) Replies(ctx context.Context, parentID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.repliesFn(ctx, parentID, limit, offset, currentUserID)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}
func (s *postRepoStub) ByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.byHashtagFn(ctx, tag, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, post *models.Post) error {
	return s.deleteFn(ctx, post)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) Retweet(ctx context.Context, userID uint, original *models.Post) (*models.Post, bool, error) {
	return s.retweetFn(ctx, userID, original)
}
func (s *postRepoStub) Unretweet(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unretweetFn(ctx, userID, postID)
}
func (s *postRepoStub) GetLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, error) {
	return s.getLikersFn(ctx, postID, limit, offset)
}
func (s *postRepoStub) GetRetweeters(ctx context.Context, postID uint, limit, offset int) ([]models.User, error) {
	return s.getRetweetersFn(ctx, postID, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Content: "stub"}, nil
		},
		feedFn:        func(context.Context, uint, []uint, int, int) ([]*models.Post, error) { return nil, nil },
		getByUserIDFn: func(context.Context, uint, int, int, uint) ([]*models.Post, error) { return nil, nil },
		repliesFn:     func(context.Context, uint, int, int, uint) ([]*models.Post, error) { return nil, nil },
		searchFn:      func(context.Context, string, int, int, uint) ([]*models.Post, error) { return nil, nil },
		byHashtagFn:   func(context.Context, string, int, int, uint) ([]*models.Post, error) { return nil, nil },
		updateFn:      func(context.Context, *models.Post) error { return nil },
		deleteFn:      func(context.Context, *models.Post) error { return nil },
		likeFn:        func(context.Context, uint, uint) (bool, error) { return true, nil },
		unlikeFn:      func(context.Context, uint, uint) (bool, error) { return true, nil },
		retweetFn: func(_ context.Context, userID uint, original *models.Post) (*models.Post, bool, error) {
			return &models.Post{UserID: userID, IsRetweet: true, OriginalPostID: &original.ID}, true, nil
		},
		unretweetFn:     func(context.Context, uint, uint) (bool, error) { return true, nil },
		getLikersFn:     func(context.Context, uint, int, int) ([]models.User, error) { return nil, nil },
		getRetweetersFn: func(context.Context, uint, int, int) ([]models.User, error) { return nil, nil },
	}
}

type hashtagRepoStub struct {
	syncPostHashtagsFn  func(context.Context, uint, []string) error
	clearPostHashtagsFn func(context.Context, uint) error
	trendingFn          func(context.Context, int) ([]models.Hashtag, error)
	getByNameFn         func(context.Context, string) (*models.Hashtag, error)
}

func (s *hashtagRepoStub) SyncPostHashtags(ctx context.Context, postID uint, names []string) error {
	return s.syncPostHashtagsFn(ctx, postID, names)
}
func (s *hashtagRepoStub) ClearPostHashtags(ctx context.Context, postID uint) error {
	return s.clearPostHashtagsFn(ctx, postID)
}
func (s *hashtagRepoStub) Trending(ctx context.Context, limit int) ([]models.Hashtag, error) {
	return s.trendingFn(ctx, limit)
}
func (s *hashtagRepoStub) GetByName(ctx context.Context, name string) (*models.Hashtag, error) {
	return s.getByNameFn(ctx, name)
}

func noopHashtagRepo() *hashtagRepoStub {
	return &hashtagRepoStub{
		syncPostHashtagsFn:  func(context.Context, uint, []string) error { return nil },
		clearPostHashtagsFn: func(context.Context, uint) error { return nil },
		trendingFn:          func(context.Context, int) ([]models.Hashtag, error) { return nil, nil },
		getByNameFn: func(_ context.Context, name string) (*models.Hashtag, error) {
			return nil, models.NewNotFoundError("Hashtag", name)
		},
	}
}

type notificationRepoStub struct {
	listByRecipientFn func(context.Context, uint, int, int) ([]models.Notification, error)
	unreadCountFn     func(context.Context, uint) (int64, error)
	markReadFn        func(context.Context, uint, uint) error
	markAllReadFn     func(context.Context, uint) error
	syncMentionsFn    func(context.Context, uint, []uint) error
}

func (s *notificationRepoStub) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID, limit, offset)
}
func (s *notificationRepoStub) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.unreadCountFn(ctx, recipientID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	return s.markReadFn(ctx, recipientID, notificationID)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.markAllReadFn(ctx, recipientID)
}
func (s *notificationRepoStub) SyncMentions(ctx context.Context, postID uint, userIDs []uint) error {
	return s.syncMentionsFn(ctx, postID, userIDs)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		listByRecipientFn: func(context.Context, uint, int, int) ([]models.Notification, error) { return nil, nil },
		unreadCountFn:     func(context.Context, uint) (int64, error) { return 0, nil },
		markReadFn:        func(context.Context, uint, uint) error { return nil },
		markAllReadFn:     func(context.Context, uint) error { return nil },
		syncMentionsFn:    func(context.Context, uint, []uint) error { return nil },
	}
}

func noopFeedService() *FeedService {
	return NewFeedService(noopPostRepo(), noopFollowRepo())
}
