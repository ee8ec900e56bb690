package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Body      string    `gorm:"size:140;not null"`
	Language  string    `gorm:"size:5"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"index"`

	// Связи
	Author User `gorm:"foreignKey:UserID"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Посты зеркалируются в поисковый индекс: имя пространства,
// id документа и индексируемые поля
func (Post) IndexName() string { return "posts" }

func (p *Post) IndexID() string { return p.ID.String() }

func (p *Post) IndexFields() map[string]interface{} {
	return map[string]interface{}{"body": p.Body}
}
