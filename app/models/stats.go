package models

// EngagementCounts holds the aggregate interaction numbers of one article.
type EngagementCounts struct {
	LikesCount    int64 `json:"likesCount" gorm:"column:likes_count"`
	CommentsCount int64 `json:"commentsCount" gorm:"column:comments_count"`
	SharesCount   int64 `json:"sharesCount" gorm:"column:shares_count"`
}
