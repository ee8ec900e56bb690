package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/models"
)

type NotificationHandler struct {
	db *database.Database
}

func NewNotificationHandler(db *database.Database) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// List возвращает уведомления новее since по возрастанию времени.
// Клиент опрашивает, передавая наибольший увиденный timestamp.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	since := 0.0
	if s := c.Query("since"); s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since parameter"})
			return
		}
		since = parsed
	}

	notifications, err := h.db.NotificationsSince(userID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, formatNotifications(notifications))
}

func formatNotifications(notifications []models.Notification) []gin.H {
	result := make([]gin.H, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		var data interface{}
		if err := json.Unmarshal(n.Payload, &data); err != nil {
			data = nil
		}
		result[i] = gin.H{
			"name":      n.Name,
			"data":      data,
			"timestamp": n.Timestamp,
		}
	}
	return result
}
