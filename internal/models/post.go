package models

import "time"

type Post struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	TopicID   int       `gorm:"index;not null" json:"topic_id"`
	Topic     Topic     `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    int       `gorm:"index;not null" json:"user_id"`
	ParentID  *int      `json:"parent_id,omitempty"`
	LikeCount int       `gorm:"default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Content  string `json:"content" binding:"required"`
	TopicID  int    `json:"topic_id" binding:"required"`
	UserID   int    `json:"user_id"`
	ParentID *int   `json:"parent_id,omitempty"`
}

// PostRow is a Post annotated with author display fields and a live like
// count recomputed from the likes table.
type PostRow struct {
	Post
	Author       string `json:"author"`
	AuthorAvatar string `json:"author_avatar"`
	LiveLikes    int64  `json:"likes"`
}
