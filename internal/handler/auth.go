package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"flashcard_service/internal/service"

	"github.com/gin-gonic/gin"
)

type authResponse struct {
	Message string `json:"message"`
	service.AuthResult
}

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	const op = "handler.Register"

	log := h.log.With(slog.String("op", op))

	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("invalid register request", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "Name, valid email and password are required")

		return
	}

	res, err := h.services.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			newErrorResponse(c, http.StatusBadRequest, "User already exists")
		case errors.Is(err, service.ErrValidation):
			newErrorResponse(c, http.StatusBadRequest, "Name, valid email and password are required")
		default:
			log.Error("failed to register user", slog.Any("error", err))

			newErrorResponse(c, http.StatusInternalServerError, "Error registering user")
		}

		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Message:    "User registered successfully",
		AuthResult: res,
	})
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	const op = "handler.Login"

	log := h.log.With(slog.String("op", op))

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		UserType string `json:"userType"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("invalid login request", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "Email and password are required")

		return
	}

	res, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password, req.UserType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")

			return
		}

		log.Error("failed to login", slog.Any("error", err))

		newErrorResponse(c, http.StatusInternalServerError, "Error logging in")

		return
	}

	c.JSON(http.StatusOK, authResponse{
		Message:    "Login successful",
		AuthResult: res,
	})
}

// GET /api/auth/profile
func (h *Handler) GetProfile(c *gin.Context) {
	const op = "handler.GetProfile"

	log := h.log.With(slog.String("op", op))

	id, ok := identityFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Missing token")

		return
	}

	user, err := h.services.Auth.GetProfile(c.Request.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			newErrorResponse(c, http.StatusNotFound, "User not found")

			return
		}

		log.Error("failed to get user by id", slog.Any("user_id", id.UserID), slog.Any("error", err))

		newErrorResponse(c, http.StatusInternalServerError, "internal error")

		return
	}

	c.JSON(http.StatusOK, user)
}

// GET /api/admin/users
func (h *Handler) GetAllUsers(c *gin.Context) {
	const op = "handler.GetAllUsers"

	log := h.log.With(slog.String("op", op))

	users, err := h.services.Auth.ListUsers(c.Request.Context())
	if err != nil {
		log.Error("failed to get all users", slog.Any("error", err))

		newErrorResponse(c, http.StatusInternalServerError, "failed to get users")

		return
	}

	c.JSON(http.StatusOK, users)
}
