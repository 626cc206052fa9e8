package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/database"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

// SiteHandler serves the endpoints that aren't tied to one entity:
// categories, stats, and health.
type SiteHandler struct {
	store store.Store
	cfg   *config.Config
}

// Categories lists all categories with live topic counts.
func (h *SiteHandler) Categories(c *gin.Context) {
	rows, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Stats returns the aggregate forum counters.
func (h *SiteHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health reports store reachability and the seeded category count.
func (h *SiteHandler) Health(c *gin.Context) {
	body := database.Health(c.Request.Context(), h.store)
	status := http.StatusOK
	if body["status"] != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}
