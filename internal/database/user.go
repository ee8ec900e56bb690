package database

import (
	"time"

	"github.com/thereayou/microblog/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	if err := d.db.Create(user).Error; err != nil {
		return err
	}
	return nil
}

func (d *Database) UpdateUser(user *models.User) error {
	return d.db.Save(user).Error
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateLastSeen(id string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("last_seen_at", time.Now()).Error
}

// Follow добавляет followed в список подписок follower.
// Повторная подписка не дублирует запись в таблице связей.
func (d *Database) Follow(follower, followed *models.User) error {
	following, err := d.IsFollowing(follower, followed)
	if err != nil || following {
		return err
	}
	return d.db.Model(follower).Association("Follows").Append(followed)
}

func (d *Database) Unfollow(follower, followed *models.User) error {
	return d.db.Model(follower).Association("Follows").Delete(followed)
}

func (d *Database) IsFollowing(follower, followed *models.User) (bool, error) {
	var n int64
	err := d.db.Table("followers").
		Where("follower_id = ? AND followed_id = ?", follower.ID, followed.ID).
		Count(&n).Error
	return n > 0, err
}

// Following возвращает пользователей, на которых подписан user
func (d *Database) Following(user *models.User) ([]models.User, error) {
	var users []models.User
	err := d.db.Model(user).Association("Follows").Find(&users)
	return users, err
}

// Followers возвращает подписчиков user
func (d *Database) Followers(user *models.User) ([]models.User, error) {
	var users []models.User
	err := d.db.
		Joins("JOIN followers ON followers.follower_id = users.id").
		Where("followers.followed_id = ?", user.ID).
		Find(&users).Error
	return users, err
}

func (d *Database) CountFollowers(user *models.User) (int64, error) {
	var n int64
	err := d.db.Table("followers").Where("followed_id = ?", user.ID).Count(&n).Error
	return n, err
}

func (d *Database) CountFollowing(user *models.User) (int64, error) {
	var n int64
	err := d.db.Table("followers").Where("follower_id = ?", user.ID).Count(&n).Error
	return n, err
}
