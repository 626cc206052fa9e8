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

type TopicHandler struct {
	store store.Store
	cfg   *config.Config
}

// List returns enriched topic rows, optionally filtered by category and
// paged with ?page= and ?limit=.
func (h *TopicHandler) List(c *gin.Context) {
	filter := models.TopicFilter{
		CategoryID: intQuery(c, "category"),
		Page:       intQuery(c, "page"),
		Limit:      intQuery(c, "limit"),
	}

	rows, err := h.store.ListTopics(c.Request.Context(), filter)
	if err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Get returns one topic and counts the fetch as a view.
func (h *TopicHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, h.cfg, apperr.Validation("invalid topic id"))
		return
	}

	row, err := h.store.GetTopic(c.Request.Context(), id)
	if err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// Create inserts a new topic.
func (h *TopicHandler) Create(c *gin.Context) {
	var input models.CreateTopicRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, h.cfg, apperr.Validation(err.Error()))
		return
	}

	userID := requestUserID(c, input.UserID)
	if userID <= 0 {
		fail(c, h.cfg, apperr.Validation("user_id is required"))
		return
	}

	topic := models.Topic{
		Title:      input.Title,
		Content:    input.Content,
		CategoryID: input.CategoryID,
		UserID:     userID,
	}
	if err := h.store.CreateTopic(c.Request.Context(), &topic); err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

func intQuery(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
