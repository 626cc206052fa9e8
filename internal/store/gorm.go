package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NEXUS-UST/nexus-forum/internal/apperr"
	"github.com/NEXUS-UST/nexus-forum/internal/models"
)

// Gorm is the relational Store. Uniqueness and referential constraints
// live in the schema; this layer only shapes queries.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) CreateUser(ctx context.Context, user *models.User) error {
	if user.LastSeen.IsZero() {
		user.LastSeen = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Validation("username or email already exists")
	}
	if err != nil {
		return apperr.Internal("create user", err)
	}
	return nil
}

func (s *Gorm) FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("find user", err)
	}
	return &user, nil
}

func (s *Gorm) FindUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("find user", err)
	}
	return &user, nil
}

func (s *Gorm) TouchLastSeen(ctx context.Context, userID int) error {
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_seen", time.Now().UTC()).Error
	if err != nil {
		return apperr.Internal("update last seen", err)
	}
	return nil
}

func (s *Gorm) ListCategories(ctx context.Context) ([]models.CategoryRow, error) {
	rows := []models.CategoryRow{}
	err := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, categories.description, categories.color, categories.icon, COUNT(topics.id) AS topic_count").
		Joins("LEFT JOIN topics ON topics.category_id = categories.id").
		Group("categories.id, categories.name, categories.description, categories.color, categories.icon").
		Order("categories.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("list categories", err)
	}
	return rows, nil
}

func (s *Gorm) CategoryCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, apperr.Internal("count categories", err)
	}
	return count, nil
}

// aggTime scans the MAX(posts.created_at) aggregate. The aggregate
// loses the column's declared type, so sqlite hands back the stored
// time text while postgres keeps a time.Time; both are accepted here.
type aggTime struct {
	t     time.Time
	valid bool
}

// sqlite time text layouts, newest bind format first.
var aggTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func (a *aggTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		a.valid = false
		return nil
	case time.Time:
		a.t, a.valid = v, true
		return nil
	case []byte:
		return a.parse(string(v))
	case string:
		return a.parse(v)
	default:
		return fmt.Errorf("unsupported time value of type %T", value)
	}
}

func (a *aggTime) parse(s string) error {
	for _, layout := range aggTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			a.t, a.valid = t, true
			return nil
		}
	}
	return fmt.Errorf("cannot parse time %q", s)
}

func (a aggTime) Value() (driver.Value, error) {
	if !a.valid {
		return nil, nil
	}
	return a.t, nil
}

// topicScan is the raw projection target for the enriched topic query;
// row() converts it to the response shape.
type topicScan struct {
	models.Topic
	Author        string
	AuthorAvatar  string
	CategoryName  string
	CategoryColor string
	PostCount     int64
	LastPostAt    aggTime
}

func (t *topicScan) row() models.TopicRow {
	row := models.TopicRow{
		Topic:         t.Topic,
		Author:        t.Author,
		AuthorAvatar:  t.AuthorAvatar,
		CategoryName:  t.CategoryName,
		CategoryColor: t.CategoryColor,
		PostCount:     t.PostCount,
	}
	if t.LastPostAt.valid {
		at := t.LastPostAt.t
		row.LastPostAt = &at
	}
	return row
}

// topicSelect is the enriched projection shared by ListTopics and
// GetTopic: author and category display fields plus live post
// aggregates.
func (s *Gorm) topicSelect(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Topic{}).
		Select("topics.*, users.username AS author, users.avatar AS author_avatar, categories.name AS category_name, categories.color AS category_color, COUNT(posts.id) AS post_count, MAX(posts.created_at) AS last_post_at").
		Joins("LEFT JOIN users ON users.id = topics.user_id").
		Joins("LEFT JOIN categories ON categories.id = topics.category_id").
		Joins("LEFT JOIN posts ON posts.topic_id = topics.id").
		Group("topics.id, users.username, users.avatar, categories.name, categories.color")
}

func (s *Gorm) ListTopics(ctx context.Context, filter models.TopicFilter) ([]models.TopicRow, error) {
	filter = NormalizeFilter(filter)

	query := s.topicSelect(ctx).
		Order("topics.is_pinned DESC, topics.created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit)
	if filter.CategoryID > 0 {
		query = query.Where("topics.category_id = ?", filter.CategoryID)
	}

	scans := []topicScan{}
	if err := query.Scan(&scans).Error; err != nil {
		return nil, apperr.Internal("list topics", err)
	}
	rows := make([]models.TopicRow, 0, len(scans))
	for i := range scans {
		rows = append(rows, scans[i].row())
	}
	return rows, nil
}

func (s *Gorm) GetTopic(ctx context.Context, id int) (*models.TopicRow, error) {
	// UpdateColumn keeps the view bump from touching updated_at; only
	// new posts move a topic's updated_at.
	res := s.db.WithContext(ctx).
		Model(&models.Topic{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, apperr.Internal("increment views", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("topic not found")
	}

	var scan topicScan
	err := s.topicSelect(ctx).Where("topics.id = ?", id).Scan(&scan).Error
	if err != nil {
		return nil, apperr.Internal("get topic", err)
	}
	row := scan.row()
	return &row, nil
}

func (s *Gorm) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if err := s.db.WithContext(ctx).Create(topic).Error; err != nil {
		return apperr.Internal("create topic", err)
	}
	return nil
}

func (s *Gorm) ListPosts(ctx context.Context, topicID int) ([]models.PostRow, error) {
	rows := []models.PostRow{}
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, users.username AS author, users.avatar AS author_avatar, COUNT(likes.id) AS live_likes").
		Joins("LEFT JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Where("posts.topic_id = ?", topicID).
		Group("posts.id, users.username, users.avatar").
		Order("posts.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("list posts", err)
	}
	return rows, nil
}

func (s *Gorm) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		if err := tx.First(&topic, post.TopicID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("topic not found")
			}
			return apperr.Internal("find topic", err)
		}

		if post.ParentID != nil {
			var parent models.Post
			if err := tx.First(&parent, *post.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Validation("parent post not found")
				}
				return apperr.Internal("find parent post", err)
			}
			if parent.TopicID != post.TopicID {
				return apperr.Validation("parent post belongs to a different topic")
			}
		}

		if err := tx.Create(post).Error; err != nil {
			return apperr.Internal("create post", err)
		}

		// A new post bumps the topic so it sorts as recently active.
		err := tx.Model(&models.Topic{}).
			Where("id = ?", post.TopicID).
			UpdateColumn("updated_at", time.Now().UTC()).Error
		if err != nil {
			return apperr.Internal("bump topic", err)
		}
		return nil
	})
}

func (s *Gorm) ToggleLike(ctx context.Context, userID, postID int) (bool, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.First(&post, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post not found")
		}
		if err != nil {
			return apperr.Internal("find post", err)
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if res.Error != nil {
			return apperr.Internal("remove like", res.Error)
		}
		if res.RowsAffected > 0 {
			liked = false
			return s.adjustLikeCount(tx, postID, -1)
		}

		// ON CONFLICT DO NOTHING makes the insert race-safe: a
		// concurrent toggle that wins the unique (user_id, post_id)
		// index leaves zero rows affected here, and the toggle flips
		// to removing that like instead of failing.
		like := models.Like{UserID: userID, PostID: postID}
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if ins.Error != nil {
			return apperr.Internal("create like", ins.Error)
		}
		if ins.RowsAffected == 0 {
			liked = false
			if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&models.Like{}).Error; err != nil {
				return apperr.Internal("remove like", err)
			}
			return s.adjustLikeCount(tx, postID, -1)
		}
		liked = true
		return s.adjustLikeCount(tx, postID, 1)
	})
	return liked, err
}

func (s *Gorm) adjustLikeCount(tx *gorm.DB, postID, delta int) error {
	err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
	if err != nil {
		return apperr.Internal("adjust like count", err)
	}
	return nil
}

func (s *Gorm) Stats(ctx context.Context) (*models.Stats, error) {
	db := s.db.WithContext(ctx)
	stats := &models.Stats{}

	if err := db.Model(&models.User{}).Count(&stats.UserCount).Error; err != nil {
		return nil, apperr.Internal("count users", err)
	}
	if err := db.Model(&models.Topic{}).Count(&stats.TopicCount).Error; err != nil {
		return nil, apperr.Internal("count topics", err)
	}
	if err := db.Model(&models.Post{}).Count(&stats.PostCount).Error; err != nil {
		return nil, apperr.Internal("count posts", err)
	}
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	err := db.Model(&models.User{}).
		Where("last_seen > ?", cutoff).
		Count(&stats.ActiveUsers).Error
	if err != nil {
		return nil, apperr.Internal("count active users", err)
	}
	return stats, nil
}

func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
