package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/handlers/dto"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/models"
)

// NotificationUnreadCount — категория уведомления о непрочитанных сообщениях
const NotificationUnreadCount = "unread_message_count"

type MessageHandler struct {
	db      *database.Database
	perPage int
}

func NewMessageHandler(db *database.Database, perPage int) *MessageHandler {
	return &MessageHandler{db: db, perPage: perPage}
}

// SendMessage отправляет личное сообщение и обновляет получателю
// уведомление о числе непрочитанных
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.MessagePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipient, err := h.db.FindUserByUsername(req.Recipient)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	}

	if recipient.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot message yourself"})
		return
	}

	message := &models.Message{
		SenderID:    userID,
		RecipientID: recipient.ID,
		Body:        req.Body,
		CreatedAt:   time.Now(),
	}

	if err := h.db.SaveMessage(message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
		return
	}

	unread, err := h.db.CountUnreadMessages(recipient.ID.String(), recipient.LastMessageRead)
	if err == nil {
		if _, nerr := h.db.AddNotification(recipient.ID, NotificationUnreadCount, unread); nerr != nil {
			log.Printf("handlers: unread notification for %s: %v", recipient.Username, nerr)
		}
	}

	c.JSON(http.StatusCreated, formatMessageResponse(message))
}

// Inbox возвращает входящие и помечает их прочитанными: отметка
// последнего чтения сдвигается, счётчик непрочитанных обнуляется
func (h *MessageHandler) Inbox(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	page := pageParam(c)

	if err := h.db.UpdateLastMessageRead(userID.String(), time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if _, err := h.db.AddNotification(userID, NotificationUnreadCount, 0); err != nil {
		log.Printf("handlers: reset unread notification: %v", err)
	}

	messages, total, err := h.db.MessagesReceived(userID.String(), page, h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, paginatedMessages(messages, total, page, h.perPage))
}

// Sent возвращает отправленные сообщения
func (h *MessageHandler) Sent(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	page := pageParam(c)

	messages, total, err := h.db.MessagesSent(userID.String(), page, h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, paginatedMessages(messages, total, page, h.perPage))
}

func paginatedMessages(messages []models.Message, total int64, page, perPage int) gin.H {
	result := make([]gin.H, len(messages))
	for i := range messages {
		result[i] = formatMessageResponse(&messages[i])
	}
	return gin.H{
		"messages": result,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	}
}

// formatMessageResponse форматирует ответ для сообщения
func formatMessageResponse(msg *models.Message) gin.H {
	response := gin.H{
		"id":           msg.ID,
		"sender_id":    msg.SenderID,
		"recipient_id": msg.RecipientID,
		"body":         msg.Body,
		"created_at":   msg.CreatedAt,
	}

	if msg.Sender.ID != uuid.Nil {
		response["sender"] = gin.H{
			"id":         msg.Sender.ID,
			"username":   msg.Sender.Username,
			"avatar_url": msg.Sender.AvatarURL(128),
		}
	}
	if msg.Recipient.ID != uuid.Nil {
		response["recipient"] = gin.H{
			"id":         msg.Recipient.ID,
			"username":   msg.Recipient.Username,
			"avatar_url": msg.Recipient.AvatarURL(128),
		}
	}

	return response
}
