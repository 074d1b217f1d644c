package controllers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/accounts"
	"github.com/newsdesk/newsdesk/internal/pkg/security"
	"github.com/newsdesk/newsdesk/internal/pkg/testutil"
)

func newAuthFixture(t *testing.T) (*gorm.DB, *AuthController, *security.TokenSigner) {
	t.Helper()
	db := testutil.NewTestDB(t)
	signer := security.NewTokenSigner("test-secret", "newsdesk")
	svc := accounts.NewService(repository.NewUserRepository(db), signer)
	return db, NewAuthController(svc), signer
}

func TestHandleRegisterCreatesAudience(t *testing.T) {
	_, ctrl, _ := newAuthFixture(t)
	app := newTestApp()
	app.Post("/register", ctrl.HandleRegister)

	status, env := do(t, app, jsonRequest(t, http.MethodPost, "/register", fiber.Map{
		"username": "reader",
		"email":    "reader@example.com",
		"password": "pw123456",
		"mobile":   "01711111111",
		"role":     "super_admin",
	}))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "User registered successfully", env.Message)

	var user models.User
	decodeData(t, env, &user)
	assert.Equal(t, "reader", user.Username)
	assert.Equal(t, models.RoleAudience, user.Role)
	assert.NotContains(t, string(env.Data), "pw123456")
	assert.NotContains(t, string(env.Data), "password")
}

func TestHandleRegisterRejectsMissingFields(t *testing.T) {
	_, ctrl, _ := newAuthFixture(t)
	app := newTestApp()
	app.Post("/register", ctrl.HandleRegister)

	status, env := do(t, app, jsonRequest(t, http.MethodPost, "/register", fiber.Map{"username": "reader"}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, accounts.MsgAllFieldsRequired, env.Message)
}

func TestHandleLogin(t *testing.T) {
	db, ctrl, signer := newAuthFixture(t)
	testutil.CreateUser(t, db, "desk", models.RoleEditor)
	app := newTestApp()
	app.Post("/login", ctrl.HandleLogin)

	status, env := do(t, app, jsonRequest(t, http.MethodPost, "/login", fiber.Map{
		"username": "desk",
		"password": "secret123",
	}))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Login successful", env.Message)

	var result accounts.LoginResult
	decodeData(t, env, &result)
	assert.Equal(t, "desk", result.User)
	assert.Equal(t, models.RoleEditor, result.Role)

	claims, err := signer.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "desk", claims.Username)

	status, env = do(t, app, jsonRequest(t, http.MethodPost, "/login", fiber.Map{
		"username": "desk",
		"password": "wrong",
	}))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, accounts.MsgInvalidLogin, env.Message)

	status, env = do(t, app, jsonRequest(t, http.MethodPost, "/login", fiber.Map{"username": "desk"}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, accounts.MsgCredentialsNeeded, env.Message)
}

func TestHandleLogout(t *testing.T) {
	_, ctrl, _ := newAuthFixture(t)
	app := newTestApp()
	app.Post("/logout", ctrl.HandleLogout)

	status, env := do(t, app, jsonRequest(t, http.MethodPost, "/logout", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)
}

func TestHierarchicalAccountCreation(t *testing.T) {
	db, ctrl, _ := newAuthFixture(t)
	boss := testutil.CreateUser(t, db, "boss", models.RoleSuperAdmin)
	admin := testutil.CreateUser(t, db, "chief", models.RoleAdmin)
	editor := testutil.CreateUser(t, db, "desk", models.RoleEditor)

	app := newTestApp()
	app.Post("/super/admin", as(boss), ctrl.HandleCreateAdmin)
	app.Post("/admin/editor", as(admin), ctrl.HandleCreateEditor)
	app.Post("/editor/journalist", as(editor), ctrl.HandleCreateJournalist)
	app.Post("/editor/editor", as(editor), ctrl.HandleCreateEditor)

	body := func(name string) fiber.Map {
		return fiber.Map{
			"username":        name,
			"email":           name + "@example.com",
			"password":        "pw123456",
			"confirmPassword": "pw123456",
			"mobile":          "01722222222",
		}
	}

	status, env := do(t, app, jsonRequest(t, http.MethodPost, "/super/admin", body("admin2")))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Admin account created successfully", env.Message)

	status, env = do(t, app, jsonRequest(t, http.MethodPost, "/admin/editor", body("editor2")))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Editor account created successfully", env.Message)

	status, env = do(t, app, jsonRequest(t, http.MethodPost, "/editor/journalist", body("writer")))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Journalist account created successfully", env.Message)

	var created models.User
	decodeData(t, env, &created)
	assert.Equal(t, models.RoleJournalist, created.Role)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, editor.ID, *created.CreatedBy)

	status, env = do(t, app, jsonRequest(t, http.MethodPost, "/editor/editor", body("editor3")))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, accounts.MsgAccessDenied, env.Message)
}

func TestHandleCreateJournalistPasswordMismatch(t *testing.T) {
	db, ctrl, _ := newAuthFixture(t)
	editor := testutil.CreateUser(t, db, "desk", models.RoleEditor)
	app := newTestApp()
	app.Post("/journalist", as(editor), ctrl.HandleCreateJournalist)

	status, env := do(t, app, jsonRequest(t, http.MethodPost, "/journalist", fiber.Map{
		"username":        "writer",
		"email":           "writer@example.com",
		"password":        "pw123456",
		"confirmPassword": "other",
		"mobile":          "01722222222",
	}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, accounts.MsgPasswordsMismatch, env.Message)
}
