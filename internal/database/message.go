package database

import (
	"time"

	"github.com/thereayou/microblog/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveMessage(message *models.Message) error {
	return d.db.Create(message).Error
}

// MessagesReceived получает входящие сообщения постранично, новые первыми
func (d *Database) MessagesReceived(userID string, page, perPage int) ([]models.Message, int64, error) {
	return d.paginateMessages(func() *gorm.DB {
		return d.db.Model(&models.Message{}).Where("recipient_id = ?", userID)
	}, "Sender", page, perPage)
}

// MessagesSent получает отправленные сообщения постранично, новые первыми
func (d *Database) MessagesSent(userID string, page, perPage int) ([]models.Message, int64, error) {
	return d.paginateMessages(func() *gorm.DB {
		return d.db.Model(&models.Message{}).Where("sender_id = ?", userID)
	}, "Recipient", page, perPage)
}

// CountUnreadMessages считает входящие новее отметки последнего чтения
func (d *Database) CountUnreadMessages(userID string, lastRead time.Time) (int64, error) {
	var n int64
	err := d.db.Model(&models.Message{}).
		Where("recipient_id = ? AND created_at > ?", userID, lastRead).
		Count(&n).Error
	return n, err
}

func (d *Database) UpdateLastMessageRead(id string, at time.Time) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("last_message_read", at).Error
}

func (d *Database) paginateMessages(base func() *gorm.DB, preload string, page, perPage int) ([]models.Message, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := base().
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Preload(preload).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
