package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	CountByRole(role models.Role) (int64, error)
	GetAssignedJournalists(editorID uint) ([]JournalistAssignment, error)
}

// NewsRepository defines the interface for news-related operations
type NewsRepository interface {
	Create(news *models.News) error
	GetByID(id uint) (*models.News, error)
	GetApprovedByID(id uint) (*models.News, error)
	UpdateReview(news *models.News) error
	ListApproved(offset, limit int) ([]models.News, error)
	CountByStatus(status models.NewsStatus) (int64, error)
	ListByStatus(status models.NewsStatus) ([]models.News, error)
	ListByJournalist(journalistID uint, filter JournalistFilter) ([]models.News, error)
	ListApprovedWithCounts(filter CountsFilter) ([]NewsWithCounts, error)
	IncrementViews(id uint, delta int64) error
}

// EngagementRepository defines the interface for likes, comments and shares
type EngagementRepository interface {
	ToggleLike(newsID, userID uint) (bool, error)
	AddComment(comment *models.Comment) error
	ListComments(newsID uint) ([]models.Comment, error)
	AddShare(share *models.Share) error
	Counts(newsID uint) (*models.EngagementCounts, error)
}

// JournalistFilter narrows a journalist's own listing. A zero Status lists everything.
type JournalistFilter struct {
	Status models.NewsStatus
}

// CountsFilter narrows the approved listings that carry engagement counts.
type CountsFilter struct {
	Category models.Category
	Limit    int
}

// NewsWithCounts is an article row together with its engagement counts.
type NewsWithCounts struct {
	models.News
	models.EngagementCounts
}

// AssignedArticle is the reduced article view shown under a journalist.
type AssignedArticle struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	Status       models.NewsStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	JournalistID uint              `json:"-"`
}

// JournalistAssignment is a journalist with the articles a given editor reviewed.
type JournalistAssignment struct {
	ID          uint              `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	Role        models.Role       `json:"role"`
	WrittenNews []AssignedArticle `json:"writtenNews"`
}

// Repositories holds all repository instances
type Repositories struct {
	User       UserRepository
	News       NewsRepository
	Engagement EngagementRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		News:       NewNewsRepository(db),
		Engagement: NewEngagementRepository(db),
	}
}
