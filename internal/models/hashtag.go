// Package models contains data structures for the application's domain models.
package models

import "time"

// Hashtag is a tag extracted from post content. PostCount is maintained
// when post/hashtag links are created and removed.
type Hashtag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	PostCount int       `gorm:"not null;default:0" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
}

// PostHashtag links a post to a hashtag.
// The combination of PostID and HashtagID must be unique.
type PostHashtag struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PostID    uint `gorm:"not null;index;uniqueIndex:idx_post_hashtag" json:"post_id"`
	HashtagID uint `gorm:"not null;index;uniqueIndex:idx_post_hashtag" json:"hashtag_id"`

	Hashtag Hashtag `gorm:"foreignKey:HashtagID" json:"hashtag"`
}
