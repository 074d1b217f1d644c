// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/internal/pkg/database"
)

// NewTestDB opens a private in-memory sqlite database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared memory database alive and serialises writes
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser stores an account with the password "secret123".
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user, err := models.NewUser(username, username+"@example.com", "secret123", "01700000000", role, nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateNews stores an article in the given status. createdAt orders listings.
func CreateNews(t *testing.T, db *gorm.DB, journalist *models.User, title string, status models.NewsStatus, createdAt time.Time) *models.News {
	t.Helper()

	news := &models.News{
		Title:        title,
		Content:      "content of " + title,
		Category:     models.CategoryNational,
		ContentType:  models.ContentTypeStandard,
		Status:       status,
		JournalistID: journalist.ID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, db.Create(news).Error)
	return news
}
