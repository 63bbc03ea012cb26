// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the timeline. Retweets and replies are posts
// too: a retweet is an empty-content post referencing the original via
// OriginalPostID, a reply references its parent via ParentID. Exactly one
// of IsRetweet/IsReply may be set, and the matching reference must be
// non-nil when it is. Back-references are optional IDs rather than owned
// sub-objects so the self-reference never cycles.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Content string `gorm:"type:text" json:"content"`

	// Persisted counters, mutated only by atomic column updates in the
	// same transaction as the edge row they mirror.
	LikesCount    int `gorm:"not null;default:0" json:"likes_count"`
	RetweetsCount int `gorm:"not null;default:0" json:"retweets_count"`
	RepliesCount  int `gorm:"not null;default:0" json:"replies_count"`

	IsRetweet      bool  `gorm:"not null;default:false" json:"is_retweet"`
	OriginalPostID *uint `gorm:"index" json:"original_post_id,omitempty"`
	OriginalPost   *Post `gorm:"foreignKey:OriginalPostID" json:"original_post,omitempty"`

	IsReply  bool  `gorm:"not null;default:false" json:"is_reply"`
	ParentID *uint `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Post `gorm:"foreignKey:ParentID" json:"parent,omitempty"`

	// IsLiked indicates whether the current requesting user liked this post (computed)
	IsLiked bool `gorm:"->" json:"is_liked"`
	// IsRetweeted indicates whether the current requesting user retweeted this post (computed)
	IsRetweeted bool `gorm:"->" json:"is_retweeted"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
