package models

import "time"

// Share records that a user shared an article, optionally naming the target platform.
type Share struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NewsID    uint      `gorm:"index;not null" json:"newsId"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Platform  string    `gorm:"type:varchar(50)" json:"platform"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the Share model
func (Share) TableName() string {
	return "shares"
}
