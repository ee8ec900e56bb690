package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/models"
	"gorm.io/gorm"
)

func (d *Database) CreateTask(task *models.Task) error {
	return d.db.Create(task).Error
}

func (d *Database) GetTask(id string) (*models.Task, error) {
	var task models.Task
	if err := d.db.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (d *Database) UpdateTask(task *models.Task) error {
	return d.db.Save(task).Error
}

// TaskInProgress возвращает незавершённую задачу с данным именем
// у пользователя, nil если такой нет
func (d *Database) TaskInProgress(userID uuid.UUID, name string) (*models.Task, error) {
	var task models.Task
	err := d.db.
		Where("user_id = ? AND name = ? AND complete = ?", userID, name, false).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (d *Database) UserTasks(userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := d.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}
