package handler

import (
	"log/slog"
	"net/http"

	"loan-management/internal/api/handler/dto"
	"loan-management/internal/domain/user"
)

type AuthHandler struct {
	service user.Service
	logger  *slog.Logger
}

func NewAuthHandler(s user.Service, l *slog.Logger) *AuthHandler {
	if s == nil {
		panic("user service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AuthHandler{
		service: s,
		logger:  l.With("component", "AuthHandler"),
	}
}

// Register creates a user account and returns an access token for it.
//
// @Summary Register a new user
// @Description Creates a user account and issues a bearer token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} dto.AuthResponse "User registered"
// @Failure 400 {object} dto.ErrorResponse "Malformed JSON body"
// @Failure 422 {object} dto.ErrorResponse "Validation failed or email already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected registration request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	res, err := h.service.Register(r.Context(), req.ToParams())
	if err != nil {
		logServiceError(r, h.logger, "Service failed to register user", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User registered", "userID", res.User.ID)
	respondJSON(w, http.StatusCreated, dto.NewAuthResponse(res))
}

// Login exchanges credentials for an access token.
//
// @Summary Log in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse "Authenticated"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected login request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logServiceError(r, h.logger, "Login failed", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAuthResponse(res))
}
