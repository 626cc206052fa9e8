package models

import "time"

type Topic struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:300;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	UserID     int       `gorm:"index;not null" json:"user_id"`
	CategoryID int       `gorm:"index;not null" json:"category_id"`
	Views      int       `gorm:"default:0" json:"views"`
	IsPinned   bool      `gorm:"default:false" json:"is_pinned"`
	IsLocked   bool      `gorm:"default:false" json:"is_locked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateTopicRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	CategoryID int    `json:"category_id" binding:"required"`
	UserID     int    `json:"user_id"`
}

// TopicRow is a Topic enriched for list/detail responses: author and
// category display fields plus live aggregates over the posts table.
type TopicRow struct {
	Topic
	Author        string     `json:"author"`
	AuthorAvatar  string     `json:"author_avatar"`
	CategoryName  string     `json:"category_name"`
	CategoryColor string     `json:"category_color"`
	PostCount     int64      `json:"post_count"`
	LastPostAt    *time.Time `json:"last_post_at,omitempty"`
}

// TopicFilter narrows and pages ListTopics. A zero CategoryID means no
// category filter.
type TopicFilter struct {
	CategoryID int
	Page       int
	Limit      int
}
