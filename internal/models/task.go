package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskRunning   = "running"
	TaskSucceeded = "succeeded"
	TaskFailed    = "failed"
)

// Task — запись о фоновой задаче. Первичный ключ — id, выданный очередью
// при постановке, а не сгенерированный базой.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"index;not null"`
	Description string
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Complete    bool      `gorm:"not null;default:false"`
	Outcome     string    `gorm:"not null;default:'running'"`
	CreatedAt   time.Time

	// Связи
	User User `gorm:"foreignKey:UserID"`
}
