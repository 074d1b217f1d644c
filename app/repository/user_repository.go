package repository

import (
	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either value is already taken.
// Soft deleted accounts still hold their unique keys.
func (r *userRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CountByRole(role models.Role) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// GetAssignedJournalists returns the journalists with at least one article
// reviewed by editorID, each with those articles.
func (r *userRepository) GetAssignedJournalists(editorID uint) ([]JournalistAssignment, error) {
	var users []models.User
	reviewed := r.db.Model(&models.News{}).Select("journalist_id").Where("editor_id = ?", editorID)
	err := r.db.Where("role = ?", models.RoleJournalist).
		Where("id IN (?)", reviewed).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []JournalistAssignment{}, nil
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var articles []AssignedArticle
	err = r.db.Model(&models.News{}).
		Select("id", "title", "status", "created_at", "journalist_id").
		Where("editor_id = ? AND journalist_id IN ?", editorID, ids).
		Order("created_at DESC").
		Scan(&articles).Error
	if err != nil {
		return nil, err
	}

	byJournalist := make(map[uint][]AssignedArticle, len(users))
	for _, a := range articles {
		byJournalist[a.JournalistID] = append(byJournalist[a.JournalistID], a)
	}

	result := make([]JournalistAssignment, 0, len(users))
	for _, u := range users {
		written := byJournalist[u.ID]
		if written == nil {
			written = []AssignedArticle{}
		}
		result = append(result, JournalistAssignment{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			Role:        u.Role,
			WrittenNews: written,
		})
	}
	return result, nil
}
