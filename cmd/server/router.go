package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/handlers"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/pkg/auth"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Post         *handlers.PostHandler
	Message      *handlers.MessageHandler
	Task         *handlers.TaskHandler
	Notification *handlers.NotificationHandler
	Stream       *handlers.NotificationStreamHandler

	JWTManager *auth.JWTManager
	Redis      *redis.Client
	DB         *database.Database
}

func APIEndpoints(r *gin.Engine, h *Handlers) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/reset-password-request", h.Auth.ResetPasswordRequest)
		authGroup.POST("/reset-password", h.Auth.ResetPassword)
	}

	// API endpoints
	api := r.Group("/api",
		middleware.AuthMiddleware(h.JWTManager, h.Redis),
		middleware.TouchLastSeen(h.DB))
	{
		api.POST("/logout", h.Auth.Logout)

		api.GET("/me", h.User.GetMe)
		api.PUT("/me", h.User.UpdateMe)

		api.GET("/users/:username", h.User.GetUser)
		api.POST("/users/:username/follow", h.User.Follow)
		api.DELETE("/users/:username/follow", h.User.Unfollow)
		api.GET("/users/:username/followers", h.User.Followers)
		api.GET("/users/:username/following", h.User.Following)
		api.GET("/users/:username/posts", h.Post.UserPosts)

		api.POST("/posts", h.Post.CreatePost)
		api.GET("/posts/feed", h.Post.Feed)
		api.GET("/posts/explore", h.Post.Explore)
		api.GET("/posts/search", h.Post.Search)

		api.POST("/messages", h.Message.SendMessage)
		api.GET("/messages/inbox", h.Message.Inbox)
		api.GET("/messages/sent", h.Message.Sent)

		api.POST("/export-posts", h.Task.ExportPosts)
		api.GET("/tasks", h.Task.ListTasks)
		api.GET("/notifications", h.Notification.List)
	}

	// WebSocket endpoints
	ws := r.Group("/ws", middleware.WSAuthMiddleware(h.JWTManager, h.Redis))
	{
		ws.GET("/notifications", h.Stream.Stream)
	}
}
