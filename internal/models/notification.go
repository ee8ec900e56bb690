package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification — одно актуальное значение на пару (пользователь, имя),
// новая запись с тем же именем заменяет прежнюю
type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_user_name,priority:1"`
	Name      string         `gorm:"not null;uniqueIndex:idx_notifications_user_name,priority:2"`
	Payload   datatypes.JSON `gorm:"not null"`
	Timestamp float64        `gorm:"index"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
