package store

import "github.com/NEXUS-UST/nexus-forum/internal/models"

// AdminUsername is the natural key of the seeded admin account.
const AdminUsername = "admin"

// DefaultAdminPassword guards the seeded admin account in dev setups
// only; change it immediately anywhere that matters.
const DefaultAdminPassword = "admin123"

// DefaultCategories is the seed set. Seeding keys on the name so
// re-running initialization never duplicates a category.
func DefaultCategories() []models.Category {
	return []models.Category{
		{Name: "General", Description: "General discussion", Color: "#3b82f6", Icon: "chat"},
		{Name: "Announcements", Description: "News and announcements", Color: "#f59e0b", Icon: "megaphone"},
		{Name: "Help & Support", Description: "Questions and troubleshooting", Color: "#10b981", Icon: "lifebuoy"},
		{Name: "Off-Topic", Description: "Everything else", Color: "#8b5cf6", Icon: "sparkles"},
	}
}
