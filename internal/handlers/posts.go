package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NEXUS-UST/nexus-forum/internal/apperr"
	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/models"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

type PostHandler struct {
	store store.Store
	cfg   *config.Config
}

// ListForTopic returns a topic's posts oldest first with live like
// counts.
func (h *PostHandler) ListForTopic(c *gin.Context) {
	topicID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, h.cfg, apperr.Validation("invalid topic id"))
		return
	}

	rows, err := h.store.ListPosts(c.Request.Context(), topicID)
	if err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Create inserts a post and bumps its topic's updated_at. A parent
// post, when given, must belong to the same topic.
func (h *PostHandler) Create(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, h.cfg, apperr.Validation(err.Error()))
		return
	}

	userID := requestUserID(c, input.UserID)
	if userID <= 0 {
		fail(c, h.cfg, apperr.Validation("user_id is required"))
		return
	}

	post := models.Post{
		Content:  input.Content,
		TopicID:  input.TopicID,
		UserID:   userID,
		ParentID: input.ParentID,
	}
	if err := h.store.CreatePost(c.Request.Context(), &post); err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ToggleLike flips the caller's like on a post and reports the
// resulting state.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, h.cfg, apperr.Validation("invalid post id"))
		return
	}

	var input models.LikeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, h.cfg, apperr.Validation(err.Error()))
		return
	}

	userID := requestUserID(c, input.UserID)
	if userID <= 0 {
		fail(c, h.cfg, apperr.Validation("user_id is required"))
		return
	}

	liked, err := h.store.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusOK, models.LikeResponse{Liked: liked})
}
