package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NEXUS-UST/nexus-forum/internal/apperr"
	"github.com/NEXUS-UST/nexus-forum/internal/auth"
	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/logger"
	"github.com/NEXUS-UST/nexus-forum/internal/middleware"
	"github.com/NEXUS-UST/nexus-forum/internal/models"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

type AuthHandler struct {
	store store.Store
	cfg   *config.Config
}

// Register handles user registration. Username and email uniqueness is
// enforced by the store; a duplicate surfaces as a 400.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, h.cfg, apperr.Validation(err.Error()))
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		fail(c, h.cfg, apperr.Internal("hash password", err))
		return
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Avatar:       input.Avatar,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		fail(c, h.cfg, err)
		return
	}

	token, err := auth.GenerateToken([]byte(h.cfg.JWT.Secret), user.ID, user.Username)
	if err != nil {
		fail(c, h.cfg, apperr.Internal("generate token", err))
		return
	}

	logger.Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	c.JSON(http.StatusCreated, models.AuthResponse{User: user.Public(), Token: token})
}

// Login accepts a username or email plus password. Unknown identifier
// and wrong password both answer the same 401 so accounts cannot be
// enumerated.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, h.cfg, apperr.Validation(err.Error()))
		return
	}

	user, err := h.store.FindUserByIdentifier(c.Request.Context(), input.Identifier)
	if err != nil || !auth.CheckPassword(user.PasswordHash, input.Password) {
		fail(c, h.cfg, apperr.Auth("invalid credentials"))
		return
	}

	if err := h.store.TouchLastSeen(c.Request.Context(), user.ID); err != nil {
		fail(c, h.cfg, err)
		return
	}

	token, err := auth.GenerateToken([]byte(h.cfg.JWT.Secret), user.ID, user.Username)
	if err != nil {
		fail(c, h.cfg, apperr.Internal("generate token", err))
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{User: user.Public(), Token: token})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt(middleware.ContextUserID)
	if userID == 0 {
		fail(c, h.cfg, apperr.Auth("unauthorized"))
		return
	}

	user, err := h.store.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.cfg, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
