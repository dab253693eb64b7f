package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/placeshare/places/api/http/presenter"
	"github.com/placeshare/places/pkg/artifact"
	"github.com/placeshare/places/pkg/auth"
)

type AuthHandler struct {
	useCase   auth.AuthUseCase
	artifacts artifact.Store
}

func NewAuthHandler(useCase auth.AuthUseCase, artifacts artifact.Store) *AuthHandler {
	return &AuthHandler{useCase: useCase, artifacts: artifacts}
}

type userResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image"`
	Places []string `json:"places"`
}

func toUserResponse(u auth.User) userResponse {
	places := make([]string, 0, len(u.Places))
	for _, id := range u.Places {
		places = append(places, id.String())
	}
	return userResponse{
		ID:     u.ID.String(),
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.ImageRef,
		Places: places,
	}
}

// Users lists all accounts, password hashes omitted.
// @Summary List users
// @Tags    users
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /users [get]
func (h *AuthHandler) Users(c *fiber.Ctx) error {
	users, err := h.useCase.Users(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "Failed fetching users, please try again later")
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"users": out})
}

// Signup handles account registration with a profile image upload.
// @Summary Register user
// @Tags    users
// @Accept  mpfd
// @Produce json
// @Param   name formData string true "display name"
// @Param   email formData string true "email"
// @Param   password formData string true "password"
// @Param   image formData file true "profile image"
// @Success 201 {object} map[string]any
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /users/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	if name == "" || len(password) < 5 {
		return presenter.Error(c, http.StatusUnprocessableEntity, "Invalid sign up information, please check your data")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return presenter.Error(c, http.StatusUnprocessableEntity, "Invalid sign up information, please check your data")
	}

	imageRef, err := saveUpload(c, h.artifacts)
	if err != nil {
		return presenter.Error(c, http.StatusUnprocessableEntity, "Invalid sign up information, please check your data")
	}

	result, err := h.useCase.Signup(c.Context(), name, email, password, imageRef)
	if err != nil {
		// The profile image is orphaned on every signup failure.
		_ = h.artifacts.Remove(context.WithoutCancel(c.Context()), imageRef)
		if errors.Is(err, auth.ErrUserAlreadyExists) {
			return presenter.Error(c, http.StatusUnprocessableEntity, "User with this email already exists, please login instead")
		}
		return presenter.Error(c, http.StatusInternalServerError, "Sign up failed, please try again")
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"userId": result.User.ID.String(),
		"email":  result.User.Email,
		"token":  result.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login.
// @Summary Login
// @Tags    users
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /users/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusForbidden, "Login failed, invalid credentials")
		}
		return presenter.Error(c, http.StatusInternalServerError, "Login failed, please try again")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"userId": result.User.ID.String(),
		"email":  result.User.Email,
		"token":  result.Token,
	})
}

// callerID extracts the authenticated user id set by the auth middleware.
func callerID(c *fiber.Ctx) (uuid.UUID, bool) {
	s, _ := c.Locals("userId").(string)
	id, err := uuid.Parse(s)
	return id, err == nil
}
