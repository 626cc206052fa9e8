package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/NEXUS-UST/nexus-forum/internal/apperr"
	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/middleware"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

// Handler combines all handler types.
type Handler struct {
	Auth  *AuthHandler
	Topic *TopicHandler
	Post  *PostHandler
	Site  *SiteHandler
}

// NewHandler creates a unified handler with all sub-handlers bound to
// the same store.
func NewHandler(s store.Store, cfg *config.Config) *Handler {
	return &Handler{
		Auth:  &AuthHandler{store: s, cfg: cfg},
		Topic: &TopicHandler{store: s, cfg: cfg},
		Post:  &PostHandler{store: s, cfg: cfg},
		Site:  &SiteHandler{store: s, cfg: cfg},
	}
}

// fail writes the error's mapped status with a body-safe message.
func fail(c *gin.Context, cfg *config.Config, err error) {
	c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err, cfg.ExposeErrors)})
}

// requestUserID prefers the authenticated token identity over the
// user_id supplied in the request body.
func requestUserID(c *gin.Context, bodyUserID int) int {
	if id, ok := c.Get(middleware.ContextUserID); ok {
		if userID, ok := id.(int); ok && userID > 0 {
			return userID
		}
	}
	return bodyUserID
}
