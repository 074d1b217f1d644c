package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NewsID    uint      `gorm:"uniqueIndex:idx_like_news_user;not null" json:"newsId"`
	UserID    uint      `gorm:"uniqueIndex:idx_like_news_user;index;not null" json:"userId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the Like model
func (Like) TableName() string {
	return "likes"
}

// ToggleLike creates or removes a like and reports whether the news is liked afterwards.
func ToggleLike(db *gorm.DB, userID, newsID uint) (bool, error) {
	var like Like
	result := db.Where("user_id = ? AND news_id = ?", userID, newsID).First(&like)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return addLike(db, userID, newsID)
		}
		return false, result.Error
	}

	// likes carry no history, remove the row entirely
	if err := db.Delete(&like).Error; err != nil {
		return true, err
	}
	return false, nil
}

// addLike inserts the like. Losing the race against a concurrent like of the
// same user still leaves the news liked.
func addLike(db *gorm.DB, userID, newsID uint) (bool, error) {
	newLike := Like{
		UserID: userID,
		NewsID: newsID,
	}
	if err := db.Create(&newLike).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}
