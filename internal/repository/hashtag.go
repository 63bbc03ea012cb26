package repository

import (
	"context"
	"time"

	"chirp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagRepository defines the interface for hashtag data operations
type HashtagRepository interface {
	SyncPostHashtags(ctx context.Context, postID uint, names []string) error
	ClearPostHashtags(ctx context.Context, postID uint) error
	Trending(ctx context.Context, limit int) ([]models.Hashtag, error)
	GetByName(ctx context.Context, name string) (*models.Hashtag, error)
}

// hashtagRepository implements HashtagRepository
type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a new hashtag repository
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// SyncPostHashtags replaces the post's hashtag links with the given set,
// creating hashtags on first use and keeping post_count consistent with
// link creation and removal.
func (r *hashtagRepository) SyncPostHashtags(ctx context.Context, postID uint, names []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := removePostHashtags(tx, postID); err != nil {
			return err
		}
		for _, name := range names {
			tag := models.Hashtag{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			link := models.PostHashtag{PostID: postID, HashtagID: tag.ID}
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				if err := tx.Model(&models.Hashtag{}).Where("id = ?", tag.ID).
					Update("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
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

// ClearPostHashtags removes all hashtag links for a deleted post.
func (r *hashtagRepository) ClearPostHashtags(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return removePostHashtags(tx, postID)
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func removePostHashtags(tx *gorm.DB, postID uint) error {
	var links []models.PostHashtag
	if err := tx.Where("post_id = ?", postID).Find(&links).Error; err != nil {
		return err
	}
	for _, link := range links {
		if err := tx.Delete(&models.PostHashtag{}, link.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Hashtag{}).Where("id = ?", link.HashtagID).
			Update("post_count", gorm.Expr("post_count - 1")).Error; err != nil {
			return err
		}
	}
	return nil
}

// Trending returns the most used hashtags over the last 7 days, ranked by
// the number of posts linked to them in that window.
func (r *hashtagRepository) Trending(ctx context.Context, limit int) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	since := time.Now().AddDate(0, 0, -7)
	if err := r.db.WithContext(ctx).
		Table("hashtags").
		Select("hashtags.*, COUNT(ph.id) as post_count").
		Joins("JOIN post_hashtags ph ON ph.hashtag_id = hashtags.id").
		Joins("JOIN posts p ON p.id = ph.post_id AND p.deleted_at IS NULL").
		Where("p.created_at > ?", since).
		Group("hashtags.id").
		Order("post_count DESC").
		Limit(limit).
		Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *hashtagRepository) GetByName(ctx context.Context, name string) (*models.Hashtag, error) {
	var tag models.Hashtag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Hashtag", name)
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}
