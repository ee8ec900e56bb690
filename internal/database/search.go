package database

import (
	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/models"
	"github.com/thereayou/microblog/internal/search"
)

// SearchPosts спрашивает у индекса ранжированные id и возвращает строки
// из базы строго в порядке индекса — порядок выборки из базы не авторитетен.
// Ноль совпадений — это пустой результат, а не ошибка.
func (d *Database) SearchPosts(idx search.Index, expression string, page, perPage int) ([]models.Post, int64, error) {
	ids, total, err := idx.Query(models.Post{}.IndexName(), expression, page, perPage)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.Post{}, 0, nil
	}

	uids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		uid, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		uids = append(uids, uid)
	}

	var rows []models.Post
	if err := d.db.Where("id IN ?", uids).Preload("Author").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	byID := make(map[string]models.Post, len(rows))
	for _, p := range rows {
		byID[p.ID.String()] = p
	}
	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}

	return posts, total, nil
}

// ReindexPosts заново загружает все посты в индекс, для backfill
func (d *Database) ReindexPosts(idx search.Index) error {
	var posts []models.Post
	if err := d.db.Find(&posts).Error; err != nil {
		return err
	}
	for i := range posts {
		p := &posts[i]
		if err := idx.Upsert(p.IndexName(), p.IndexID(), p.IndexFields()); err != nil {
			return err
		}
	}
	return nil
}
