package models

import "time"

// Like records a user's endorsement of a post. The composite unique
// index guarantees at most one row per (user, post) pair; Post.LikeCount
// must track the number of rows referencing the post.
type Like struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"uniqueIndex:idx_user_post;not null" json:"user_id"`
	PostID    int       `gorm:"uniqueIndex:idx_user_post;not null" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type LikeRequest struct {
	UserID int `json:"user_id"`
}

type LikeResponse struct {
	Liked bool `json:"liked"`
}
