package repository

import (
	"context"
	"errors"

	"chirp/internal/models"
	"chirp/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	Feed(ctx context.Context, viewerID uint, authorIDs []uint, limit, offset int) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Replies(ctx context.Context, parentID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, post *models.Post) error
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	Retweet(ctx context.Context, userID uint, original *models.Post) (*models.Post, bool, error)
	Unretweet(ctx context.Context, userID, postID uint) (bool, error)
	GetLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, error)
	GetRetweeters(ctx context.Context, postID uint, limit, offset int) ([]models.User, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries to fetch the viewer-relative liked and
// retweeted flags in the same query. Counters are persisted columns and
// need no subquery.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select("posts.*, "+
			"EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as is_liked, "+
			"EXISTS(SELECT 1 FROM retweets WHERE retweets.post_id = posts.id AND retweets.user_id = ?) as is_retweeted",
			currentUserID, currentUserID)
	}
	return db.Select("posts.*, false as is_liked, false as is_retweeted")
}

// Create inserts the post and maintains the author's posts_count and, for
// replies, the parent's replies_count in the same transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", post.UserID).
			Update("posts_count", gorm.Expr("posts_count + 1")).Error; err != nil {
			return err
		}
		if post.IsReply && post.ParentID != nil {
			return tx.Model(&models.Post{}).Where("id = ?", *post.ParentID).
				Update("replies_count", gorm.Expr("replies_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("OriginalPost").
		Preload("OriginalPost.User").
		Preload("Parent").
		Preload("Parent.User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Feed returns posts whose author is in authorIDs, plus posts that mention
// the viewer regardless of the follow graph, newest first.
func (r *postRepository) Feed(ctx context.Context, viewerID uint, authorIDs []uint, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("OriginalPost").
		Preload("OriginalPost.User").
		Preload("Parent").
		Preload("Parent.User").
		Where("posts.user_id IN ? OR EXISTS(SELECT 1 FROM mentions WHERE mentions.post_id = posts.id AND mentions.user_id = ?)",
			authorIDs, viewerID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("OriginalPost").
		Preload("OriginalPost.User").
		Preload("Parent").
		Preload("Parent.User").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Replies(ctx context.Context, parentID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.parent_id = ?", parentID).
		Order("posts.created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Parent").
		Preload("Parent.User").
		Where("posts.content LIKE ?", like).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Joins("JOIN post_hashtags ph ON ph.post_id = posts.id").
		Joins("JOIN hashtags h ON h.id = ph.hashtag_id").
		Where("h.name = ?", tag).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete soft-deletes the post and unwinds the counters its creation added:
// the author's posts_count, the parent's replies_count for replies, and for
// retweet companions the original's retweets_count plus the intent row.
func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Post{}, post.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", post.UserID).
			Update("posts_count", gorm.Expr("posts_count - 1")).Error; err != nil {
			return err
		}
		if post.IsReply && post.ParentID != nil {
			if err := tx.Model(&models.Post{}).Where("id = ?", *post.ParentID).
				Update("replies_count", gorm.Expr("replies_count - 1")).Error; err != nil {
				return err
			}
		}
		if post.IsRetweet && post.OriginalPostID != nil {
			result := tx.Where("user_id = ? AND post_id = ?", post.UserID, *post.OriginalPostID).
				Delete(&models.Retweet{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				if err := tx.Model(&models.Post{}).Where("id = ?", *post.OriginalPostID).
					Update("retweets_count", gorm.Expr("retweets_count - 1")).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Like inserts the like edge and increments likes_count in one transaction.
// Returns false when the edge already existed; ON CONFLICT DO NOTHING keeps
// concurrent duplicates from double-counting.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("insert", "likes")()

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: userID, PostID: postID}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return created, nil
}

// Unlike removes the like edge and decrements likes_count. Returns false
// when no edge existed, in which case the counter is untouched.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("delete", "likes")()

	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return removed, nil
}

// Retweet creates the intent row, the companion empty-content post that
// carries the retweet into timelines, and the counter updates, atomically.
// Returns the companion post and false when the user had already retweeted.
func (r *postRepository) Retweet(ctx context.Context, userID uint, original *models.Post) (*models.Post, bool, error) {
	defer observability.TrackQuery("insert", "retweets")()

	var companion *models.Post
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rt := models.Retweet{UserID: userID, PostID: original.ID}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rt)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true

		companion = &models.Post{
			UserID:         userID,
			Content:        "",
			IsRetweet:      true,
			OriginalPostID: &original.ID,
		}
		if err := tx.Create(companion).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("posts_count", gorm.Expr("posts_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", original.ID).
			Update("retweets_count", gorm.Expr("retweets_count + 1")).Error
	})
	if err != nil {
		return nil, false, models.NewInternalError(err)
	}
	return companion, created, nil
}

// errCompanionMissing aborts the unretweet transaction when the intent row
// has no companion post, so nothing commits.
var errCompanionMissing = errors.New("retweet intent has no companion post")

// Unretweet removes the intent row, its companion post, and the counter
// updates, atomically. The bool reports whether the intent existed. An
// intent without a companion post rolls the whole unit back and surfaces
// as a state inconsistency, leaving the rows in place for investigation.
func (r *postRepository) Unretweet(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("delete", "retweets")()

	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Retweet{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true

		var companion models.Post
		err := tx.Where("user_id = ? AND is_retweet = ? AND original_post_id = ?", userID, true, postID).
			First(&companion).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCompanionMissing
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&companion).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("posts_count", gorm.Expr("posts_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("retweets_count", gorm.Expr("retweets_count - 1")).Error
	})
	if errors.Is(err, errCompanionMissing) {
		return false, models.NewStateInconsistencyError("Retweet intent existed without a companion post")
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return removed, nil
}

func (r *postRepository) GetLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN likes l ON users.id = l.user_id").
		Where("l.post_id = ?", postID).
		Order("l.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *postRepository) GetRetweeters(ctx context.Context, postID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN retweets rt ON users.id = rt.user_id").
		Where("rt.post_id = ?", postID).
		Order("rt.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
