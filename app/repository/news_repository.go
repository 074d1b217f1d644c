package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
)

// newsRepository implements the NewsRepository interface
type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new news repository instance
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

// withAuthor preloads the public part of the journalist account.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Journalist", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username")
	})
}

func withEditor(db *gorm.DB) *gorm.DB {
	return db.Preload("Editor", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username")
	})
}

// Create creates a new news article in the database
func (r *newsRepository) Create(news *models.News) error {
	return r.db.Create(news).Error
}

// GetByID retrieves a news article by its ID regardless of status
func (r *newsRepository) GetByID(id uint) (*models.News, error) {
	var news models.News
	err := r.db.First(&news, id).Error
	if err != nil {
		return nil, err
	}
	return &news, nil
}

// GetApprovedByID retrieves a publicly visible news article
func (r *newsRepository) GetApprovedByID(id uint) (*models.News, error) {
	var news models.News
	err := withAuthor(r.db).
		Where("status = ?", models.NewsStatusApproved).
		First(&news, id).Error
	if err != nil {
		return nil, err
	}
	return &news, nil
}

// UpdateReview writes the review outcome of news in a single statement.
func (r *newsRepository) UpdateReview(news *models.News) error {
	return r.db.Model(news).
		Select("status", "editor_id", "feedback").
		Updates(news).Error
}

// ListApproved retrieves approved news articles with pagination, newest first
func (r *newsRepository) ListApproved(offset, limit int) ([]models.News, error) {
	var news []models.News
	err := withAuthor(r.db).
		Where("status = ?", models.NewsStatusApproved).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&news).Error
	return news, err
}

func (r *newsRepository) CountByStatus(status models.NewsStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.News{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ListByStatus lists every article in status, newest first
func (r *newsRepository) ListByStatus(status models.NewsStatus) ([]models.News, error) {
	var news []models.News
	err := withAuthor(r.db).
		Where("status = ?", status).
		Order("created_at DESC").Order("id DESC").
		Find(&news).Error
	return news, err
}

// ListByJournalist lists the articles written by journalistID. Reviewed
// listings are ordered by the time of the review.
func (r *newsRepository) ListByJournalist(journalistID uint, filter JournalistFilter) ([]models.News, error) {
	var news []models.News
	query := withAuthor(r.db).Where("journalist_id = ?", journalistID)

	switch filter.Status {
	case "":
		query = query.Order("created_at DESC")
	case models.NewsStatusApproved, models.NewsStatusRejected:
		query = withEditor(query).Where("status = ?", filter.Status).Order("updated_at DESC")
	default:
		query = query.Where("status = ?", filter.Status).Order("created_at DESC")
	}

	err := query.Order("id DESC").Find(&news).Error
	return news, err
}

func countColumn(table, alias string, softDelete bool) string {
	cond := fmt.Sprintf("%s.news_id = news.id", table)
	if softDelete {
		cond += fmt.Sprintf(" AND %s.deleted_at IS NULL", table)
	}
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s WHERE %s) AS %s", table, cond, alias)
}

func approvedWithCountsQuery(filter CountsFilter) sq.SelectBuilder {
	query := sq.Select(
		"news.*",
		countColumn("likes", "likes_count", false),
		countColumn("comments", "comments_count", true),
		countColumn("shares", "shares_count", false),
	).
		From("news").
		Where(sq.Eq{
			"news.status":     string(models.NewsStatusApproved),
			"news.deleted_at": nil,
		}).
		OrderBy("news.created_at DESC", "news.id DESC")

	if filter.Category != "" {
		query = query.Where(sq.Eq{"news.category": string(filter.Category)})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	return query
}

// ListApprovedWithCounts lists approved articles together with their
// like, comment and share counts.
func (r *newsRepository) ListApprovedWithCounts(filter CountsFilter) ([]NewsWithCounts, error) {
	query, args, err := approvedWithCountsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build counts query: %w", err)
	}

	var items []NewsWithCounts
	if err := r.db.Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	if err := r.attachAuthors(items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []NewsWithCounts{}
	}
	return items, nil
}

func (r *newsRepository) attachAuthors(items []NewsWithCounts) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.JournalistID)
	}

	var users []models.User
	if err := r.db.Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return err
	}
	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range items {
		items[i].Journalist = byID[items[i].JournalistID]
	}
	return nil
}

// IncrementViews adds delta to the stored view counter of one article.
func (r *newsRepository) IncrementViews(id uint, delta int64) error {
	return r.db.Model(&models.News{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", delta)).Error
}
