package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
)

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository instance
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// ToggleLike likes or unlikes newsID for userID and returns whether it is liked now.
func (r *engagementRepository) ToggleLike(newsID, userID uint) (bool, error) {
	return models.ToggleLike(r.db, userID, newsID)
}

func (r *engagementRepository) AddComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListComments returns the comments of an article, oldest first.
func (r *engagementRepository) ListComments(newsID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username")
	}).
		Where("news_id = ?", newsID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *engagementRepository) AddShare(share *models.Share) error {
	return r.db.Create(share).Error
}

// Counts returns the like, comment and share numbers of one article.
func (r *engagementRepository) Counts(newsID uint) (*models.EngagementCounts, error) {
	query, args, err := sq.Select(
		countColumn("likes", "likes_count", false),
		countColumn("comments", "comments_count", true),
		countColumn("shares", "shares_count", false),
	).
		From("news").
		Where(sq.Eq{"news.id": newsID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build counts query: %w", err)
	}

	var counts models.EngagementCounts
	if err := r.db.Raw(query, args...).Scan(&counts).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}
