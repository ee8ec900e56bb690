package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/tasks"
)

type TaskHandler struct {
	db    *database.Database
	tasks *tasks.Service
}

func NewTaskHandler(db *database.Database, svc *tasks.Service) *TaskHandler {
	return &TaskHandler{db: db, tasks: svc}
}

// ExportPosts запускает фоновый экспорт постов пользователя.
// Повторный запуск при уже идущем экспорте отклоняется; защита
// рекомендательная, без блокировки.
func (h *TaskHandler) ExportPosts(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	running, err := h.tasks.InProgress(userID, tasks.JobExportPosts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check running tasks"})
		return
	}
	if running != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "an export task is currently in progress"})
		return
	}

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	task, err := h.tasks.Launch(c.Request.Context(), user,
		tasks.JobExportPosts, "Exporting posts...", user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to launch task"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"id":          task.ID,
		"name":        task.Name,
		"description": task.Description,
		"complete":    task.Complete,
		"outcome":     task.Outcome,
	})
}

// ListTasks возвращает задачи пользователя с текущим прогрессом
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	userTasks, err := h.db.UserTasks(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
		return
	}

	result := make([]gin.H, len(userTasks))
	for i := range userTasks {
		t := &userTasks[i]
		result[i] = gin.H{
			"id":          t.ID,
			"name":        t.Name,
			"description": t.Description,
			"complete":    t.Complete,
			"outcome":     t.Outcome,
			"progress":    h.tasks.Progress(c.Request.Context(), t),
			"created_at":  t.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": result})
}
