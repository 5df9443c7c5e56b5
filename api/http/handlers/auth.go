package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/contacts/api/http/presenter"
	"github.com/artem13815/contacts/pkg/auth"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type registerRequest struct {
	Name     string `json:"name" example:"alice"`
	Email    string `json:"email" validate:"required" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register handles user registration.
// @Summary Register user
// @Tags    1.) Authentication
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /user/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	const op = "handlers.Register"
	var req registerRequest
	if err := bind(c, op, "email and password are required", &req); err != nil {
		return err
	}

	user, err := h.useCase.Register(c.UserContext(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"id":        user.ID.String(),
		"name":      user.Name,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login verifies credentials and issues a 30 minute bearer token.
// @Summary Login
// @Tags    1.) Authentication
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /user/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	const op = "handlers.Login"
	var req loginRequest
	if err := bind(c, op, "email and password are required", &req); err != nil {
		return err
	}

	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return presenter.JSON(c, http.StatusOK, tokenResponse{Token: result.Token})
}

// Current returns the identity carried by the caller's token.
// @Summary  Current user
// @Tags     1.) Authentication
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} userResponse
// @Failure  401 {object} presenter.ErrorResponse
// @Router   /user/current [get]
func (h *AuthHandler) Current(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	return presenter.JSON(c, http.StatusOK, userResponse{
		ID:    id.UserID.String(),
		Name:  id.Name,
		Email: id.Email,
	})
}
