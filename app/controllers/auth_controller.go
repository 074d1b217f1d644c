package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/internal/pkg/accounts"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
	"github.com/newsdesk/newsdesk/internal/pkg/usercontext"
)

// AccountService is the part of accounts.Service the handlers need.
type AccountService interface {
	Register(in accounts.Input) (*models.User, error)
	CreateAccount(caller models.Actor, target models.Role, in accounts.Input) (*models.User, error)
	Login(username, password string) (*accounts.LoginResult, error)
}

// AuthController handles registration, login and hierarchical account creation
type AuthController struct {
	accounts AccountService
}

func NewAuthController(accounts AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func parseAccountInput(c *fiber.Ctx) (accounts.Input, error) {
	var in accounts.Input
	if err := c.BodyParser(&in); err != nil {
		return in, apperror.BadRequest("Invalid request body")
	}
	return in, nil
}

// HandleRegister creates an audience account
func (ac *AuthController) HandleRegister(c *fiber.Ctx) error {
	in, err := parseAccountInput(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := ac.accounts.Register(in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "User registered successfully", user)
}

// HandleLogin exchanges credentials for a bearer token
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.BadRequest(accounts.MsgCredentialsNeeded))
	}
	result, err := ac.accounts.Login(req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Login successful", result)
}

// HandleLogout is stateless, tokens stay valid until they expire
func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "Logged out successfully", nil)
}

func (ac *AuthController) createAccount(c *fiber.Ctx, target models.Role, message string) error {
	in, err := parseAccountInput(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := ac.accounts.CreateAccount(usercontext.GetActor(c), target, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, message, user)
}

func (ac *AuthController) HandleCreateAdmin(c *fiber.Ctx) error {
	return ac.createAccount(c, models.RoleAdmin, "Admin account created successfully")
}

func (ac *AuthController) HandleCreateEditor(c *fiber.Ctx) error {
	return ac.createAccount(c, models.RoleEditor, "Editor account created successfully")
}

func (ac *AuthController) HandleCreateJournalist(c *fiber.Ctx) error {
	return ac.createAccount(c, models.RoleJournalist, "Journalist account created successfully")
}
