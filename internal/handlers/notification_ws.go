package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/middleware"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Интервал опроса новых уведомлений
	pollPeriod = 10 * time.Second
)

// NotificationStreamHandler отдаёт уведомления по WebSocket:
// те же записи, что и polling-лента, но сервер сам двигает watermark
// и досылает только новое
type NotificationStreamHandler struct {
	db       *database.Database
	upgrader websocket.Upgrader
}

func NewNotificationStreamHandler(db *database.Database) *NotificationStreamHandler {
	return &NotificationStreamHandler{
		db: db,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// Stream обрабатывает WebSocket соединение
func (h *NotificationStreamHandler) Stream(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	go h.writePump(conn, userID.(uuid.UUID))
	go h.readPump(conn)
}

// writePump шлёт клиенту новые уведомления и ping
func (h *NotificationStreamHandler) writePump(conn *websocket.Conn, userID uuid.UUID) {
	poll := time.NewTicker(pollPeriod)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		poll.Stop()
		ping.Stop()
		conn.Close()
	}()

	// Watermark — наибольший отправленный timestamp; каждая запись
	// уходит в соединение не больше одного раза
	var since float64

	for {
		select {
		case <-poll.C:
			notifications, err := h.db.NotificationsSince(userID, since)
			if err != nil {
				log.Printf("handlers: notification stream: %v", err)
				return
			}
			if len(notifications) == 0 {
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(formatNotifications(notifications)); err != nil {
				return
			}
			since = notifications[len(notifications)-1].Timestamp

		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump вычитывает управляющие фреймы до закрытия соединения
func (h *NotificationStreamHandler) readPump(conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("handlers: notification stream: %v", err)
			}
			return
		}
	}
}
