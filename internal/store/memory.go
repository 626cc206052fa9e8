package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NEXUS-UST/nexus-forum/internal/apperr"
	"github.com/NEXUS-UST/nexus-forum/internal/models"
)

type likeKey struct {
	userID int
	postID int
}

// Memory is the throwaway in-memory Store used for demos and tests. All
// state lives behind one mutex, which makes every operation, including
// the like toggle, trivially atomic. Nothing survives a restart.
type Memory struct {
	mu sync.RWMutex

	users      map[int]*models.User
	categories map[int]*models.Category
	topics     map[int]*models.Topic
	posts      map[int]*models.Post
	likes      map[likeKey]*models.Like

	nextUser     int
	nextCategory int
	nextTopic    int
	nextPost     int
	nextLike     int
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[int]*models.User),
		categories: make(map[int]*models.Category),
		topics:     make(map[int]*models.Topic),
		posts:      make(map[int]*models.Post),
		likes:      make(map[likeKey]*models.Like),
	}
}

// AddCategory registers a category, keyed on name so seeding stays
// idempotent. Returns the stored category.
func (m *Memory) AddCategory(category models.Category) models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return *existing
		}
	}
	m.nextCategory++
	category.ID = m.nextCategory
	category.CreatedAt = time.Now().UTC()
	m.categories[category.ID] = &category
	return category
}

// SeedDefaults loads the default category set and the admin account,
// mirroring what database.Initialize does for the relational store.
func (m *Memory) SeedDefaults(adminPasswordHash string) {
	for _, category := range DefaultCategories() {
		m.AddCategory(category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == AdminUsername {
			return
		}
	}
	m.nextUser++
	now := time.Now().UTC()
	m.users[m.nextUser] = &models.User{
		ID:           m.nextUser,
		Username:     AdminUsername,
		Email:        "admin@localhost",
		PasswordHash: adminPasswordHash,
		CreatedAt:    now,
		LastSeen:     now,
	}
}

func (m *Memory) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Validation("username or email already exists")
		}
	}

	m.nextUser++
	user.ID = m.nextUser
	now := time.Now().UTC()
	user.CreatedAt = now
	if user.LastSeen.IsZero() {
		user.LastSeen = now
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *Memory) FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == identifier || user.Email == identifier {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *Memory) FindUserByID(ctx context.Context, id int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	found := *user
	return &found, nil
}

func (m *Memory) TouchLastSeen(ctx context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[userID]; ok {
		user.LastSeen = time.Now().UTC()
	}
	return nil
}

func (m *Memory) ListCategories(ctx context.Context) ([]models.CategoryRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := []models.CategoryRow{}
	for _, category := range m.categories {
		var count int64
		for _, topic := range m.topics {
			if topic.CategoryID == category.ID {
				count++
			}
		}
		rows = append(rows, models.CategoryRow{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			Color:       category.Color,
			Icon:        category.Icon,
			TopicCount:  count,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) CategoryCount(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.categories)), nil
}

func (m *Memory) ListTopics(ctx context.Context, filter models.TopicFilter) ([]models.TopicRow, error) {
	filter = NormalizeFilter(filter)

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []*models.Topic{}
	for _, topic := range m.topics {
		if filter.CategoryID > 0 && topic.CategoryID != filter.CategoryID {
			continue
		}
		matched = append(matched, topic)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].IsPinned != matched[j].IsPinned {
			return matched[i].IsPinned
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return []models.TopicRow{}, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	rows := []models.TopicRow{}
	for _, topic := range matched[offset:end] {
		rows = append(rows, m.enrichTopic(topic))
	}
	return rows, nil
}

func (m *Memory) enrichTopic(topic *models.Topic) models.TopicRow {
	row := models.TopicRow{Topic: *topic}
	if user, ok := m.users[topic.UserID]; ok {
		row.Author = user.Username
		row.AuthorAvatar = user.Avatar
	}
	if category, ok := m.categories[topic.CategoryID]; ok {
		row.CategoryName = category.Name
		row.CategoryColor = category.Color
	}
	for _, post := range m.posts {
		if post.TopicID != topic.ID {
			continue
		}
		row.PostCount++
		if row.LastPostAt == nil || post.CreatedAt.After(*row.LastPostAt) {
			at := post.CreatedAt
			row.LastPostAt = &at
		}
	}
	return row
}

func (m *Memory) GetTopic(ctx context.Context, id int) (*models.TopicRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	topic, ok := m.topics[id]
	if !ok {
		return nil, apperr.NotFound("topic not found")
	}
	topic.Views++
	row := m.enrichTopic(topic)
	return &row, nil
}

func (m *Memory) CreateTopic(ctx context.Context, topic *models.Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTopic++
	topic.ID = m.nextTopic
	now := time.Now().UTC()
	topic.CreatedAt = now
	topic.UpdatedAt = now
	stored := *topic
	m.topics[topic.ID] = &stored
	return nil
}

func (m *Memory) ListPosts(ctx context.Context, topicID int) ([]models.PostRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []*models.Post{}
	for _, post := range m.posts {
		if post.TopicID == topicID {
			matched = append(matched, post)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	rows := []models.PostRow{}
	for _, post := range matched {
		row := models.PostRow{Post: *post}
		if user, ok := m.users[post.UserID]; ok {
			row.Author = user.Username
			row.AuthorAvatar = user.Avatar
		}
		for key := range m.likes {
			if key.postID == post.ID {
				row.LiveLikes++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *Memory) CreatePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	topic, ok := m.topics[post.TopicID]
	if !ok {
		return apperr.NotFound("topic not found")
	}
	if post.ParentID != nil {
		parent, ok := m.posts[*post.ParentID]
		if !ok {
			return apperr.Validation("parent post not found")
		}
		if parent.TopicID != post.TopicID {
			return apperr.Validation("parent post belongs to a different topic")
		}
	}

	m.nextPost++
	post.ID = m.nextPost
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	stored := *post
	m.posts[post.ID] = &stored

	topic.UpdatedAt = now
	return nil
}

func (m *Memory) ToggleLike(ctx context.Context, userID, postID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[postID]
	if !ok {
		return false, apperr.NotFound("post not found")
	}

	key := likeKey{userID: userID, postID: postID}
	if _, ok := m.likes[key]; ok {
		delete(m.likes, key)
		post.LikeCount--
		return false, nil
	}

	m.nextLike++
	m.likes[key] = &models.Like{
		ID:        m.nextLike,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}
	post.LikeCount++
	return true, nil
}

func (m *Memory) Stats(ctx context.Context) (*models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &models.Stats{
		UserCount:  int64(len(m.users)),
		TopicCount: int64(len(m.topics)),
		PostCount:  int64(len(m.posts)),
	}
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	for _, user := range m.users {
		if user.LastSeen.After(cutoff) {
			stats.ActiveUsers++
		}
	}
	return stats, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
