package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type NewsStatus string

const (
	NewsStatusPending  NewsStatus = "pending"
	NewsStatusApproved NewsStatus = "approved"
	NewsStatusRejected NewsStatus = "rejected"
)

// IsReviewOutcome reports whether s is a status an editor may set.
func (s NewsStatus) IsReviewOutcome() bool {
	return s == NewsStatusApproved || s == NewsStatusRejected
}

type ContentType string

const (
	ContentTypeStandard ContentType = "standard"
	ContentTypeVideo    ContentType = "video"
)

func (ct ContentType) IsValid() bool {
	return ct == ContentTypeStandard || ct == ContentTypeVideo
}

type Category string

const (
	CategoryNational      Category = "national"
	CategoryInternational Category = "international"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryDistrict      Category = "district"
)

var categories = []Category{
	CategoryNational,
	CategoryInternational,
	CategorySports,
	CategoryEntertainment,
	CategoryDistrict,
}

// ParseCategory matches raw case-insensitively against the known categories.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// News represents a news article in the system
type News struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Category      Category       `gorm:"type:varchar(20);index;not null" json:"category"`
	ContentType   ContentType    `gorm:"type:varchar(20);default:'standard'" json:"contentType"`
	Status        NewsStatus     `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	JournalistID  uint           `gorm:"index;not null" json:"journalistId"`
	Journalist    *User          `gorm:"foreignKey:JournalistID" json:"journalist,omitempty"`
	EditorID      *uint          `gorm:"index" json:"editorId"`
	Editor        *User          `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
	Feedback      *string        `gorm:"type:text" json:"feedback"`
	FeaturedImage *string        `gorm:"type:varchar(255)" json:"featuredImage"`
	ThumbnailURL  *string        `gorm:"column:thumbnail_url;type:varchar(255)" json:"thumbnailUrl"`
	YoutubeURL    *string        `gorm:"column:youtube_url;type:varchar(255)" json:"youtubeUrl"`
	VideoPath     *string        `gorm:"type:varchar(255)" json:"videoPath"`
	Views         int64          `gorm:"default:0" json:"views"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the News model
func (News) TableName() string {
	return "news"
}
