// Package store defines the data-access contract for the forum and its
// two implementations: a gorm-backed relational store and an in-memory
// variant for demos and tests. Both are selected at startup, never
// through package-level state.
package store

import (
	"context"

	"github.com/NEXUS-UST/nexus-forum/internal/models"
)

const (
	// DefaultPageSize applies when a topic listing omits limit.
	DefaultPageSize = 20
	// MaxPageSize caps the limit query parameter.
	MaxPageSize = 100
)

// Store is the injectable data-access interface. Every method maps to a
// single forum operation; implementations enforce the same uniqueness
// and counter semantics.
type Store interface {
	// CreateUser persists a new user. Returns a validation error when
	// the username or email is already taken.
	CreateUser(ctx context.Context, user *models.User) error
	// FindUserByIdentifier looks a user up by username or email.
	FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// FindUserByID looks a user up by primary key.
	FindUserByID(ctx context.Context, id int) (*models.User, error)
	// TouchLastSeen stamps the user's last-seen time with now.
	TouchLastSeen(ctx context.Context, userID int) error

	// ListCategories returns all categories with live topic counts.
	ListCategories(ctx context.Context) ([]models.CategoryRow, error)
	// CategoryCount reports the number of categories, for health checks.
	CategoryCount(ctx context.Context) (int64, error)

	// ListTopics returns enriched topic rows, pinned first then newest
	// first, paged by filter.
	ListTopics(ctx context.Context, filter models.TopicFilter) ([]models.TopicRow, error)
	// GetTopic returns one enriched topic and increments its view
	// counter. Every call counts as a view.
	GetTopic(ctx context.Context, id int) (*models.TopicRow, error)
	// CreateTopic persists a new topic.
	CreateTopic(ctx context.Context, topic *models.Topic) error

	// ListPosts returns a topic's posts oldest first with live like
	// counts.
	ListPosts(ctx context.Context, topicID int) ([]models.PostRow, error)
	// CreatePost persists a post and bumps its topic's updated_at. A
	// parent post must belong to the same topic.
	CreatePost(ctx context.Context, post *models.Post) error

	// ToggleLike flips the (user, post) like atomically and keeps the
	// post's like counter in step. Returns the resulting liked state.
	ToggleLike(ctx context.Context, userID, postID int) (bool, error)

	// Stats returns the aggregate counters for GET /stats.
	Stats(ctx context.Context) (*models.Stats, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// NormalizeFilter applies paging defaults and clamps limit to
// MaxPageSize so a single request cannot ask for an unbounded page.
func NormalizeFilter(f models.TopicFilter) models.TopicFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	return f
}
