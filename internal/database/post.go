package database

import (
	"github.com/thereayou/microblog/internal/models"
	"gorm.io/gorm"
)

func (d *Database) GetPost(id string) (*models.Post, error) {
	var post models.Post
	if err := d.db.Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (d *Database) CountUserPosts(userID string) (int64, error) {
	var n int64
	err := d.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// UserPostsOldestFirst возвращает все посты пользователя от старых к новым,
// детерминированный порядок для экспорта
func (d *Database) UserPostsOldestFirst(userID string) ([]models.Post, error) {
	var posts []models.Post
	err := d.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&posts).Error
	return posts, err
}

// UserPosts получает посты пользователя постранично, новые первыми
func (d *Database) UserPosts(userID string, page, perPage int) ([]models.Post, int64, error) {
	return d.paginatePosts(func() *gorm.DB {
		return d.db.Model(&models.Post{}).Where("user_id = ?", userID)
	}, page, perPage)
}

// AllPosts получает все посты постранично, новые первыми
func (d *Database) AllPosts(page, perPage int) ([]models.Post, int64, error) {
	return d.paginatePosts(func() *gorm.DB {
		return d.db.Model(&models.Post{})
	}, page, perPage)
}

// FollowedPosts — лента пользователя: его собственные посты вместе
// с постами тех, на кого он подписан
func (d *Database) FollowedPosts(userID string, page, perPage int) ([]models.Post, int64, error) {
	return d.paginatePosts(func() *gorm.DB {
		followed := d.db.Table("followers").Select("followed_id").Where("follower_id = ?", userID)
		return d.db.Model(&models.Post{}).
			Where("user_id IN (?) OR user_id = ?", followed, userID)
	}, page, perPage)
}

func (d *Database) paginatePosts(base func() *gorm.DB, page, perPage int) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := base().
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Preload("Author").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}
