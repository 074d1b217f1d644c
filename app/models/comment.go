package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"userId"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	NewsID    uint           `gorm:"index;not null" json:"newsId"`
	Content   string         `gorm:"type:text;not null" json:"content" validate:"required,min=1,max=2000"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) Validate() error {
	v := validator.New()
	return v.Struct(c)
}
