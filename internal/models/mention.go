// Package models contains data structures for the application's domain models.
package models

import "time"

// Mention records that a post mentions a user by @username. Mentioned
// users see the post in their feed regardless of the follow graph.
// The combination of PostID and UserID must be unique.
type Mention struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_mention_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_mention_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
