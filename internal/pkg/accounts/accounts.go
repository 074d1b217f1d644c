// Package accounts owns registration, role-gated account creation and login.
package accounts

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
)

const (
	MsgAllFieldsRequired = "All fields are required"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgInvalidEmail      = "Invalid email format"
	MsgDuplicateAccount  = "Username or email already exists"
	MsgCredentialsNeeded = "Username and password are required"
	MsgInvalidLogin      = "Invalid username or password"
	MsgAccessDenied      = "Access denied"
	MsgAccountInactive   = "Account is not active"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Input carries the account fields sent by a client. Any role field the
// client sends is ignored, the role is decided by the operation.
type Input struct {
	Username        string `json:"username" form:"username" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required"`
	Password        string `json:"password" form:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	Mobile          string `json:"mobile" form:"mobile" validate:"required"`
}

func (in Input) trimmed() Input {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	return in
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User  string      `json:"user"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}

// TokenIssuer signs the bearer credential handed out on login.
type TokenIssuer interface {
	Sign(userID uint, username string, role models.Role) (string, error)
}

type Service struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	validate *validator.Validate
}

func NewService(users repository.UserRepository, tokens TokenIssuer) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Register creates a self-service audience account.
func (s *Service) Register(in Input) (*models.User, error) {
	in = in.trimmed()
	if err := s.validateInput(in, false); err != nil {
		return nil, err
	}
	return s.create(in, models.RoleAudience, nil)
}

// CreateAccount creates an account with role target on behalf of caller.
// Only the role directly above target may do so.
func (s *Service) CreateAccount(caller models.Actor, target models.Role, in Input) (*models.User, error) {
	if !caller.Role.CanCreate(target) {
		log.Warnf("[Accounts] %s (%s) tried to create a %s account", caller.Username, caller.Role, target)
		return nil, apperror.Forbidden(MsgAccessDenied)
	}

	in = in.trimmed()
	if err := s.validateInput(in, target == models.RoleJournalist); err != nil {
		return nil, err
	}

	createdBy := caller.ID
	return s.create(in, target, &createdBy)
}

// validateInput checks required fields, the password confirmation and the
// email format, in that order.
func (s *Service) validateInput(in Input, confirm bool) error {
	if err := s.validate.Struct(in); err != nil {
		return apperror.BadRequest(MsgAllFieldsRequired)
	}
	if confirm {
		if in.ConfirmPassword == "" {
			return apperror.BadRequest(MsgAllFieldsRequired)
		}
		if in.Password != in.ConfirmPassword {
			return apperror.BadRequest(MsgPasswordsMismatch)
		}
	}
	if !emailPattern.MatchString(in.Email) {
		return apperror.BadRequest(MsgInvalidEmail)
	}
	return nil
}

func (s *Service) create(in Input, role models.Role, createdBy *uint) (*models.User, error) {
	exists, err := s.users.ExistsByUsernameOrEmail(in.Username, in.Email)
	if err != nil {
		return nil, apperror.Internal("Error creating account", err)
	}
	if exists {
		return nil, apperror.BadRequest(MsgDuplicateAccount)
	}

	user, err := models.NewUser(in.Username, in.Email, in.Password, in.Mobile, role, createdBy)
	if err != nil {
		return nil, apperror.Internal("Error creating account", err)
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.BadRequest(MsgDuplicateAccount)
		}
		return nil, apperror.Internal("Error creating account", err)
	}

	log.Infof("[Accounts] Created %s account %q (id %d)", role, user.Username, user.ID)
	return user, nil
}

// Login verifies the credentials and issues a bearer token. Unknown users and
// wrong passwords produce the same error.
func (s *Service) Login(username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.BadRequest(MsgCredentialsNeeded)
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized(MsgInvalidLogin)
		}
		return nil, apperror.Internal("Internal server error", err)
	}
	if !user.CheckPassword(password) {
		return nil, apperror.Unauthorized(MsgInvalidLogin)
	}
	if !user.IsActive() {
		log.Warnf("[Accounts] Login refused for %q with status %s", user.Username, user.Status)
		return nil, apperror.Forbidden(MsgAccountInactive)
	}

	token, err := s.tokens.Sign(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	return &LoginResult{User: user.Username, Role: user.Role, Token: token}, nil
}

// EnsureSuperAdmin creates the first super admin unless one exists already.
// It reports whether an account was created.
func (s *Service) EnsureSuperAdmin(in Input) (bool, error) {
	count, err := s.users.CountByRole(models.RoleSuperAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	in = in.trimmed()
	if err := s.validateInput(in, false); err != nil {
		return false, err
	}
	if _, err := s.create(in, models.RoleSuperAdmin, nil); err != nil {
		return false, err
	}
	return true, nil
}
