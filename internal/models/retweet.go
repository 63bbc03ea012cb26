// Package models contains data structures for the application's domain models.
package models

import "time"

// Retweet is the intent record for "user retweeted post". It is distinct
// from the companion empty-content Post that represents the retweet inside
// timelines; the two are always created and destroyed together.
// The combination of UserID and PostID must be unique.
type Retweet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_retweet_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_retweet_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}
