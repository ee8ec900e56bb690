package tasks

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/models"
)

// Имена фоновых задач
const (
	JobExportPosts = "export_posts"
)

// NotificationTaskProgress — категория уведомления о ходе задачи
const NotificationTaskProgress = "task_progress"

// JobQueue — операции очереди, нужные пайплайну задач
type JobQueue interface {
	Enqueue(ctx context.Context, jobName string, args ...string) (string, error)
	Progress(ctx context.Context, id string) (int, error)
	SetProgress(ctx context.Context, id string, progress int) error
}

// Service связывает очередь задач с их записями в базе
// и уведомлениями владельца
type Service struct {
	db    *database.Database
	queue JobQueue
}

func NewService(db *database.Database, q JobQueue) *Service {
	return &Service{db: db, queue: q}
}

// Launch ставит задачу в очередь и создаёт для неё запись, ключ которой —
// id, выданный очередью, так обе системы делят одну идентичность.
// Проверку на уже идущий дубликат делает вызывающий через InProgress.
func (s *Service) Launch(ctx context.Context, user *models.User, jobName, description string, args ...string) (*models.Task, error) {
	id, err := s.queue.Enqueue(ctx, jobName, args...)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          id,
		Name:        jobName,
		Description: description,
		UserID:      user.ID,
		Outcome:     models.TaskRunning,
	}
	if err := s.db.CreateTask(task); err != nil {
		return nil, err
	}

	return task, nil
}

// InProgress возвращает незавершённую задачу пользователя с данным именем.
// Защита от дубликатов рекомендательная: между проверкой и постановкой
// блокировки нет.
func (s *Service) InProgress(userID uuid.UUID, name string) (*models.Task, error) {
	return s.db.TaskInProgress(userID, name)
}

// Progress возвращает прогресс задачи по метаданным очереди.
// Пропавшая из очереди задача считается завершённой — 100, чтобы
// устаревшие записи не подвешивали интерфейс.
func (s *Service) Progress(ctx context.Context, task *models.Task) int {
	p, err := s.queue.Progress(ctx, task.ID)
	if err != nil {
		return 100
	}
	return p
}

// SetProgress публикует ход выполнения: метаданные очереди, уведомление
// task_progress владельцу и флаг завершения при достижении 100
func (s *Service) SetProgress(ctx context.Context, jobID string, progress int) error {
	if err := s.queue.SetProgress(ctx, jobID, progress); err != nil {
		return err
	}

	task, err := s.db.GetTask(jobID)
	if err != nil {
		return err
	}

	if _, err := s.db.AddNotification(task.UserID, NotificationTaskProgress, map[string]interface{}{
		"task_id":  jobID,
		"progress": progress,
	}); err != nil {
		return err
	}

	if progress >= 100 && !task.Complete {
		task.Complete = true
		if task.Outcome == models.TaskRunning {
			task.Outcome = models.TaskSucceeded
		}
		return s.db.UpdateTask(task)
	}

	return nil
}

// Fail помечает задачу проваленной и доводит её прогресс до 100,
// чтобы она не зависла на частичном проценте
func (s *Service) Fail(ctx context.Context, jobID string) error {
	task, err := s.db.GetTask(jobID)
	if err != nil {
		return err
	}
	task.Outcome = models.TaskFailed
	if err := s.db.UpdateTask(task); err != nil {
		return err
	}
	return s.SetProgress(ctx, jobID, 100)
}
