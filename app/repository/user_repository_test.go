package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/internal/pkg/testutil"
)

func TestExistsByUsernameOrEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	testutil.CreateUser(t, db, "taken", models.RoleAudience)

	exists, err := repo.ExistsByUsernameOrEmail("taken", "fresh@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail("fresh", "taken@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail("fresh", "fresh@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetByUsernameAndCountByRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	testutil.CreateUser(t, db, "root", models.RoleSuperAdmin)

	user, err := repo.GetByUsername("root")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)

	_, err = repo.GetByUsername("nobody")
	assert.Error(t, err)

	count, err := repo.CountByRole(models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetAssignedJournalists(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	editor := testutil.CreateUser(t, db, "desk", models.RoleEditor)
	otherEditor := testutil.CreateUser(t, db, "night-desk", models.RoleEditor)
	alice := testutil.CreateUser(t, db, "alice", models.RoleJournalist)
	bob := testutil.CreateUser(t, db, "bob", models.RoleJournalist)
	carol := testutil.CreateUser(t, db, "carol", models.RoleJournalist)

	now := time.Now()
	a1 := testutil.CreateNews(t, db, alice, "a1", models.NewsStatusApproved, now)
	a2 := testutil.CreateNews(t, db, alice, "a2", models.NewsStatusRejected, now.Add(time.Minute))
	b1 := testutil.CreateNews(t, db, bob, "b1", models.NewsStatusApproved, now)
	testutil.CreateNews(t, db, carol, "c1", models.NewsStatusPending, now)

	for _, n := range []*models.News{a1, a2} {
		require.NoError(t, db.Model(n).Update("editor_id", editor.ID).Error)
	}
	require.NoError(t, db.Model(b1).Update("editor_id", otherEditor.ID).Error)

	assigned, err := repo.GetAssignedJournalists(editor.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "alice", assigned[0].Username)
	assert.Equal(t, models.RoleJournalist, assigned[0].Role)
	require.Len(t, assigned[0].WrittenNews, 2)
	assert.Equal(t, "a2", assigned[0].WrittenNews[0].Title)

	none, err := repo.GetAssignedJournalists(carol.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
