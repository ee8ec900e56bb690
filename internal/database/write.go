package database

import (
	"github.com/thereayou/microblog/internal/search"
	"gorm.io/gorm"
)

// Write выполняет fn внутри транзакции. Изменения searchable-сущностей
// fn складывает в ChangeSet; набор возвращается только если транзакция
// зафиксирована, при откате вызывающий не получает ничего и индекс не
// трогается. Репликацию в индекс вызывающий делает сам через search.Sync.
func (d *Database) Write(fn func(tx *gorm.DB, cs *search.ChangeSet) error) (*search.ChangeSet, error) {
	cs := &search.ChangeSet{}
	err := d.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx, cs)
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}
