package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/handlers"
	"github.com/NEXUS-UST/nexus-forum/internal/middleware"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

type Server struct {
	cfg     *config.Config
	handler *handlers.Handler
}

// New wires the router and returns a configured http.Server.
func New(cfg *config.Config, s store.Store) *http.Server {
	srv := &Server{
		cfg:     cfg,
		handler: handlers.NewHandler(s, cfg),
	}

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes.
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	secret := []byte(s.cfg.JWT.Secret)

	r.GET("/health", s.handler.Site.Health)
	r.GET("/stats", s.handler.Site.Stats)

	r.POST("/register", s.handler.Auth.Register)
	r.POST("/login", s.handler.Auth.Login)

	r.GET("/categories", s.handler.Site.Categories)
	r.GET("/topics", s.handler.Topic.List)
	r.GET("/topics/:id", s.handler.Topic.Get)
	r.GET("/topics/:id/posts", s.handler.Post.ListForTopic)

	// Write routes accept a body user_id; a valid Bearer token, when
	// present, takes precedence over it.
	writes := r.Group("", middleware.OptionalAuth(secret))
	{
		writes.POST("/topics", s.handler.Topic.Create)
		writes.POST("/posts", s.handler.Post.Create)
		writes.POST("/posts/:id/like", s.handler.Post.ToggleLike)
	}

	protected := r.Group("", middleware.Auth(secret))
	{
		protected.GET("/me", s.handler.Auth.Me)
	}

	return r
}
