package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// AddNotification записывает уведомление пользователю, заменяя прежнее
// с тем же именем. Одним upsert-ом, чтобы между заменами не было окна,
// в котором конкурентный читатель не видит ни одной записи.
func (d *Database) AddNotification(userID uuid.UUID, name string, payload interface{}) (*models.Notification, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Payload:   datatypes.JSON(raw),
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
	}

	err = d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "timestamp"}),
	}).Create(n).Error
	if err != nil {
		return nil, err
	}

	// при конфликте строка сохранила прежний первичный ключ,
	// возвращаем её, а не наш кандидат
	var stored models.Notification
	if err := d.db.Where("user_id = ? AND name = ?", userID, name).First(&stored).Error; err != nil {
		return nil, err
	}

	return &stored, nil
}

// NotificationsSince отдаёт уведомления новее отметки since по возрастанию
// времени; клиент опрашивает, передавая наибольший увиденный timestamp
func (d *Database) NotificationsSince(userID uuid.UUID, since float64) ([]models.Notification, error) {
	var notifications []models.Notification
	err := d.db.
		Where("user_id = ? AND timestamp > ?", userID, since).
		Order("timestamp ASC").
		Find(&notifications).Error
	return notifications, err
}
