package models

// Stats is the aggregate snapshot served by GET /stats. Active users are
// those seen within the last 24 hours.
type Stats struct {
	UserCount   int64 `json:"user_count"`
	TopicCount  int64 `json:"topic_count"`
	PostCount   int64 `json:"post_count"`
	ActiveUsers int64 `json:"active_users"`
}
