package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/handlers/dto"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/models"
)

type UserHandler struct {
	db *database.Database
}

func NewUserHandler(db *database.Database) *UserHandler {
	return &UserHandler{db: db}
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"about_me":     user.AboutMe,
		"avatar_url":   user.AvatarURL(128),
		"created_at":   user.CreatedAt,
		"last_seen_at": user.LastSeenAt,
	})
}

// UpdateMe обновляет профиль текущего пользователя
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// Обновляем только переданные поля
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.AboutMe != "" {
		user.AboutMe = req.AboutMe
	}

	if err := h.db.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"about_me": user.AboutMe,
	})
}

// GetUser возвращает профиль пользователя по username
func (h *UserHandler) GetUser(c *gin.Context) {
	user, ok := h.findByUsername(c)
	if !ok {
		return
	}

	followers, err := h.db.CountFollowers(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	following, err := h.db.CountFollowing(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	posts, err := h.db.CountUserPosts(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"about_me":     user.AboutMe,
		"avatar_url":   user.AvatarURL(128),
		"last_seen_at": user.LastSeenAt,
		"followers":    followers,
		"following":    following,
		"posts":        posts,
	})
}

// Follow подписывает текущего пользователя на username
func (h *UserHandler) Follow(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	target, ok := h.findByUsername(c)
	if !ok {
		return
	}

	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot follow yourself"})
		return
	}

	me, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.db.Follow(me, target); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to follow"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "you are following " + target.Username})
}

// Unfollow отписывает текущего пользователя от username
func (h *UserHandler) Unfollow(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	target, ok := h.findByUsername(c)
	if !ok {
		return
	}

	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot unfollow yourself"})
		return
	}

	me, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.db.Unfollow(me, target); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unfollow"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "you are not following " + target.Username})
}

// Followers возвращает подписчиков пользователя
func (h *UserHandler) Followers(c *gin.Context) {
	user, ok := h.findByUsername(c)
	if !ok {
		return
	}

	users, err := h.db.Followers(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load followers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": formatUserList(users)})
}

// Following возвращает подписки пользователя
func (h *UserHandler) Following(c *gin.Context) {
	user, ok := h.findByUsername(c)
	if !ok {
		return
	}

	users, err := h.db.Following(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load following"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": formatUserList(users)})
}

func (h *UserHandler) findByUsername(c *gin.Context) (*models.User, bool) {
	user, err := h.db.FindUserByUsername(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return nil, false
	}
	return user, true
}

func formatUserList(users []models.User) []gin.H {
	result := make([]gin.H, len(users))
	for i := range users {
		result[i] = gin.H{
			"id":         users[i].ID,
			"username":   users[i].Username,
			"avatar_url": users[i].AvatarURL(128),
		}
	}
	return result
}
